package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/cashbook/internal/models"
)

const transactionColumns = "id, owner_id, date, kind, amount, description, category_id, payment_method_id, is_legacy, origin_sheet, origin_row, origin_month, created_at"

// ListTransactions returns all of the owner's transactions ordered by date
// then id, the export order.
func (s *SQLiteStore) ListTransactions(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	return s.listTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? ORDER BY date, id",
		ownerID,
	)
}

// ListTransactionsByMonth returns the owner's transactions falling inside one
// calendar month, used by summary recomputation.
func (s *SQLiteStore) ListTransactionsByMonth(ctx context.Context, ownerID string, year, month int) ([]models.Transaction, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return s.listTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? AND date >= ? AND date < ? ORDER BY date, id",
		ownerID, encodeDate(start), encodeDate(end),
	)
}

func (s *SQLiteStore) listTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

func scanTransaction(rows *sql.Rows) (*models.Transaction, error) {
	var tx models.Transaction
	var date, amount string
	err := rows.Scan(&tx.ID, &tx.OwnerID, &date, &tx.Kind, &amount, &tx.Description,
		&tx.CategoryID, &tx.PaymentMethodID, &tx.IsLegacy,
		&tx.OriginSheet, &tx.OriginRow, &tx.OriginMonth, &tx.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	if tx.Date, err = decodeDate(date); err != nil {
		return nil, err
	}
	if tx.Amount, err = decodeAmount(amount); err != nil {
		return nil, err
	}
	return &tx, nil
}

// CreateTransaction persists a new transaction, assigning ID and CreatedAt.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO transactions ("+transactionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		tx.ID, tx.OwnerID, encodeDate(tx.Date), tx.Kind, encodeAmount(tx.Amount), tx.Description,
		tx.CategoryID, tx.PaymentMethodID, tx.IsLegacy,
		tx.OriginSheet, tx.OriginRow, tx.OriginMonth, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// UpdateTransaction replaces the mutable fields of an existing transaction.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		 SET date = ?, kind = ?, amount = ?, description = ?, category_id = ?, payment_method_id = ?,
		     is_legacy = ?, origin_sheet = ?, origin_row = ?, origin_month = ?
		 WHERE id = ? AND owner_id = ?`,
		encodeDate(tx.Date), tx.Kind, encodeAmount(tx.Amount), tx.Description,
		tx.CategoryID, tx.PaymentMethodID,
		tx.IsLegacy, tx.OriginSheet, tx.OriginRow, tx.OriginMonth,
		tx.ID, tx.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction not found: %s", tx.ID)
	}
	return nil
}
