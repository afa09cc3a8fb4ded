package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/cashbook/internal/models"
)

// ListSummaries returns all of the owner's monthly summaries ordered by
// (year, month).
func (s *SQLiteStore) ListSummaries(ctx context.Context, ownerID string) ([]models.MonthlySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT owner_id, year, month, total_income, total_expense FROM monthly_summaries WHERE owner_id = ? ORDER BY year, month",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.MonthlySummary
	for rows.Next() {
		var m models.MonthlySummary
		var income, expense string
		if err := rows.Scan(&m.OwnerID, &m.Year, &m.Month, &income, &expense); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		if m.TotalIncome, err = decodeAmount(income); err != nil {
			return nil, err
		}
		if m.TotalExpense, err = decodeAmount(expense); err != nil {
			return nil, err
		}
		summaries = append(summaries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}
	return summaries, nil
}

// UpsertSummary writes a summary for (owner, year, month), replacing any
// existing totals. Summaries are caches, so the replace is unconditional.
func (s *SQLiteStore) UpsertSummary(ctx context.Context, summary *models.MonthlySummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monthly_summaries (owner_id, year, month, total_income, total_expense)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (owner_id, year, month) DO UPDATE SET total_income = excluded.total_income, total_expense = excluded.total_expense`,
		summary.OwnerID, summary.Year, summary.Month,
		encodeAmount(summary.TotalIncome), encodeAmount(summary.TotalExpense),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}
	return nil
}

// GetUserConfig returns the owner's config, or defaults when none is stored
// yet. The defaults are not persisted; SaveUserConfig does that.
func (s *SQLiteStore) GetUserConfig(ctx context.Context, ownerID string) (*models.UserConfig, error) {
	cfg := &models.UserConfig{}
	err := s.db.QueryRowContext(ctx,
		"SELECT owner_id, currency, last_export_at FROM user_configs WHERE owner_id = ?",
		ownerID,
	).Scan(&cfg.OwnerID, &cfg.Currency, &cfg.LastExportAt)
	if err == sql.ErrNoRows {
		return &models.UserConfig{OwnerID: ownerID, Currency: "BRL"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user config: %w", err)
	}
	return cfg, nil
}

// SaveUserConfig upserts the owner's config row.
func (s *SQLiteStore) SaveUserConfig(ctx context.Context, cfg *models.UserConfig) error {
	if cfg.Currency == "" {
		cfg.Currency = "BRL"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_configs (owner_id, currency, last_export_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (owner_id) DO UPDATE SET currency = excluded.currency, last_export_at = excluded.last_export_at`,
		cfg.OwnerID, cfg.Currency, cfg.LastExportAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}
