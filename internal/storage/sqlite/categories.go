package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/cashbook/internal/models"
)

// ListCategories returns all of the owner's categories ordered by name then id.
func (s *SQLiteStore) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, name, kind, created_at FROM categories WHERE owner_id = ? ORDER BY name, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Kind, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return cats, nil
}

// CreateCategory persists a new category, assigning ID and CreatedAt.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, owner_id, name, kind, created_at) VALUES (?, ?, ?, ?, ?)",
		category.ID, category.OwnerID, category.Name, category.Kind, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// ListPaymentMethods returns all of the owner's payment methods ordered by
// name then id.
func (s *SQLiteStore) ListPaymentMethods(ctx context.Context, ownerID string) ([]models.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, name, created_at FROM payment_methods WHERE owner_id = ? ORDER BY name, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	defer rows.Close()

	var pms []models.PaymentMethod
	for rows.Next() {
		var pm models.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.OwnerID, &pm.Name, &pm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		pms = append(pms, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment methods: %w", err)
	}
	return pms, nil
}

// CreatePaymentMethod persists a new payment method, assigning ID and CreatedAt.
func (s *SQLiteStore) CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error {
	if pm.ID == "" {
		pm.ID = uuid.New().String()
	}
	if pm.CreatedAt == 0 {
		pm.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payment_methods (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)",
		pm.ID, pm.OwnerID, pm.Name, pm.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment method: %w", err)
	}
	return nil
}
