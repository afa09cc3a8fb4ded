package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/cashbook/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "Test User", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, store, "alice@example.com")
	if user.ID == "" || user.CreatedAt == 0 {
		t.Error("expected ID and CreatedAt assigned on create")
	}

	t.Run("get by email", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("expected %s, got %s", user.ID, got.ID)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if got.Email != user.Email {
			t.Errorf("expected %s, got %s", user.Email, got.Email)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); err == nil {
			t.Error("expected error for missing user")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected error for duplicate email")
		}
	})
}

func TestCategoriesScopedToOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := newTestUser(t, store, "alice@example.com")
	bob := newTestUser(t, store, "bob@example.com")

	for _, owner := range []*models.User{alice, bob} {
		cat := &models.Category{OwnerID: owner.ID, Name: "Food", Kind: models.KindExpense}
		if err := store.CreateCategory(ctx, cat); err != nil {
			t.Fatalf("failed to create category: %v", err)
		}
	}

	cats, err := store.ListCategories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(cats) != 1 {
		t.Errorf("expected 1 category for alice, got %d", len(cats))
	}
	if cats[0].OwnerID != alice.ID {
		t.Errorf("expected alice's category, got owner %s", cats[0].OwnerID)
	}
}

func TestTransactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "alice@example.com")

	tx := &models.Transaction{
		OwnerID:     user.ID,
		Date:        time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Kind:        models.KindExpense,
		Amount:      decimal.RequireFromString("12.34"),
		Description: "coffee",
		IsLegacy:    true,
		OriginSheet: "2019",
		OriginRow:   3,
		OriginMonth: 6,
	}
	if err := store.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		txs, err := store.ListTransactions(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to list transactions: %v", err)
		}
		if len(txs) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(txs))
		}
		got := txs[0]
		if !got.Amount.Equal(tx.Amount) {
			t.Errorf("expected amount %s, got %s", tx.Amount, got.Amount)
		}
		if !got.Date.Equal(tx.Date) {
			t.Errorf("expected date %v, got %v", tx.Date, got.Date)
		}
		if !got.IsLegacy || got.OriginSheet != "2019" || got.OriginRow != 3 || got.OriginMonth != 6 {
			t.Errorf("provenance did not round-trip: %+v", got)
		}
	})

	t.Run("list by month", func(t *testing.T) {
		txs, err := store.ListTransactionsByMonth(ctx, user.ID, 2024, 6)
		if err != nil {
			t.Fatalf("failed to list by month: %v", err)
		}
		if len(txs) != 1 {
			t.Errorf("expected 1 transaction in June, got %d", len(txs))
		}

		txs, err = store.ListTransactionsByMonth(ctx, user.ID, 2024, 7)
		if err != nil {
			t.Fatalf("failed to list by month: %v", err)
		}
		if len(txs) != 0 {
			t.Errorf("expected no transactions in July, got %d", len(txs))
		}
	})

	t.Run("update", func(t *testing.T) {
		tx.Amount = decimal.RequireFromString("99.99")
		if err := store.UpdateTransaction(ctx, tx); err != nil {
			t.Fatalf("failed to update transaction: %v", err)
		}
		txs, _ := store.ListTransactions(ctx, user.ID)
		if !txs[0].Amount.Equal(decimal.RequireFromString("99.99")) {
			t.Errorf("expected updated amount, got %s", txs[0].Amount)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		ghost := &models.Transaction{ID: "nope", OwnerID: user.ID, Amount: decimal.Zero}
		if err := store.UpdateTransaction(ctx, ghost); err == nil {
			t.Error("expected error updating missing transaction")
		}
	})
}

func TestAccounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "alice@example.com")

	account := &models.Account{
		OwnerID:     user.ID,
		Description: "Rent",
		Amount:      decimal.RequireFromString("1200.00"),
		DueDate:     time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
	}
	if err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	account.Paid = true
	account.PaidDate = time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	if err := store.UpdateAccount(ctx, account); err != nil {
		t.Fatalf("failed to update account: %v", err)
	}

	accounts, err := store.ListAccounts(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list accounts: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	got := accounts[0]
	if !got.Paid || got.PaidDate.IsZero() {
		t.Errorf("expected paid account, got %+v", got)
	}
}

func TestSummariesUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "alice@example.com")

	summary := &models.MonthlySummary{
		OwnerID:      user.ID,
		Year:         2024,
		Month:        6,
		TotalIncome:  decimal.RequireFromString("100"),
		TotalExpense: decimal.Zero,
	}
	if err := store.UpsertSummary(ctx, summary); err != nil {
		t.Fatalf("failed to upsert summary: %v", err)
	}

	summary.TotalIncome = decimal.RequireFromString("250")
	if err := store.UpsertSummary(ctx, summary); err != nil {
		t.Fatalf("failed to re-upsert summary: %v", err)
	}

	summaries, err := store.ListSummaries(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to list summaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].TotalIncome.String() != "250" {
		t.Errorf("expected income 250, got %s", summaries[0].TotalIncome)
	}
}

func TestUserConfig(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := newTestUser(t, store, "alice@example.com")

	t.Run("defaults when unset", func(t *testing.T) {
		cfg, err := store.GetUserConfig(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to get config: %v", err)
		}
		if cfg.Currency != "BRL" || cfg.LastExportAt != 0 {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
	})

	t.Run("save and reload", func(t *testing.T) {
		cfg := &models.UserConfig{OwnerID: user.ID, Currency: "USD", LastExportAt: 1700000000}
		if err := store.SaveUserConfig(ctx, cfg); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}
		got, err := store.GetUserConfig(ctx, user.ID)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if got.Currency != "USD" || got.LastExportAt != 1700000000 {
			t.Errorf("config did not round-trip: %+v", got)
		}
	})
}
