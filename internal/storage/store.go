// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/cashbook/internal/models"
)

// Store defines the interface for ledger storage operations. Every query is
// scoped to one owner; implementations never return rows across owners.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the engine or service layers.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Categories.
	ListCategories(ctx context.Context, ownerID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error

	// Payment methods.
	ListPaymentMethods(ctx context.Context, ownerID string) ([]models.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, pm *models.PaymentMethod) error

	// Accounts (bills to pay).
	ListAccounts(ctx context.Context, ownerID string) ([]models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	UpdateAccount(ctx context.Context, account *models.Account) error

	// Transactions.
	ListTransactions(ctx context.Context, ownerID string) ([]models.Transaction, error)
	ListTransactionsByMonth(ctx context.Context, ownerID string, year, month int) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error

	// Monthly summaries, upserted by (owner, year, month).
	ListSummaries(ctx context.Context, ownerID string) ([]models.MonthlySummary, error)
	UpsertSummary(ctx context.Context, summary *models.MonthlySummary) error

	// User configuration. GetUserConfig returns defaults (not persisted)
	// when the owner has no stored config yet.
	GetUserConfig(ctx context.Context, ownerID string) (*models.UserConfig, error)
	SaveUserConfig(ctx context.Context, cfg *models.UserConfig) error

	// Import audit log, append-only, listed newest first.
	AppendImportLog(ctx context.Context, entry *models.ImportLogEntry) error
	ListImportLogs(ctx context.Context, ownerID string) ([]models.ImportLogEntry, error)

	// Close releases any resources held by the store.
	Close() error
}
