package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/cashbook/internal/models"
)

// ListAccounts returns all of the owner's accounts ordered by due date then id.
func (s *SQLiteStore) ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, description, amount, due_date, paid, paid_date, created_at FROM accounts WHERE owner_id = ? ORDER BY due_date, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var amount, dueDate, paidDate string
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Description, &amount, &dueDate, &a.Paid, &paidDate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if a.Amount, err = decodeAmount(amount); err != nil {
			return nil, err
		}
		if a.DueDate, err = decodeDate(dueDate); err != nil {
			return nil, err
		}
		if a.PaidDate, err = decodeDate(paidDate); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount persists a new account, assigning ID and CreatedAt.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	if account.CreatedAt == 0 {
		account.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts (id, owner_id, description, amount, due_date, paid, paid_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		account.ID, account.OwnerID, account.Description, encodeAmount(account.Amount),
		encodeDate(account.DueDate), account.Paid, encodeDate(account.PaidDate), account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// UpdateAccount replaces the mutable fields of an existing account.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE accounts SET description = ?, amount = ?, due_date = ?, paid = ?, paid_date = ? WHERE id = ? AND owner_id = ?",
		account.Description, encodeAmount(account.Amount), encodeDate(account.DueDate),
		account.Paid, encodeDate(account.PaidDate),
		account.ID, account.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account not found: %s", account.ID)
	}
	return nil
}
