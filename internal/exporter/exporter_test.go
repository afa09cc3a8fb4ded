package exporter

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/cashbook/internal/models"
	"github.com/mmynk/cashbook/internal/storage/sqlite"
	"github.com/mmynk/cashbook/internal/workbook"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedDataset(t *testing.T, store *sqlite.SQLiteStore) *models.User {
	t.Helper()
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice Smith", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	cat := &models.Category{OwnerID: user.ID, Name: "Food", Kind: models.KindExpense}
	if err := store.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	pm := &models.PaymentMethod{OwnerID: user.ID, Name: "Debit"}
	if err := store.CreatePaymentMethod(ctx, pm); err != nil {
		t.Fatalf("failed to create payment method: %v", err)
	}

	tx := &models.Transaction{
		OwnerID:         user.ID,
		Date:            time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC),
		Kind:            models.KindExpense,
		Amount:          decimal.RequireFromString("12.34"),
		Description:     "coffee",
		CategoryID:      cat.ID,
		PaymentMethodID: pm.ID,
	}
	if err := store.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("failed to create transaction: %v", err)
	}

	account := &models.Account{
		OwnerID:     user.ID,
		Description: "Rent",
		Amount:      decimal.RequireFromString("1200.00"),
		DueDate:     time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC),
	}
	if err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	summary := &models.MonthlySummary{
		OwnerID:      user.ID,
		Year:         2024,
		Month:        6,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.RequireFromString("12.34"),
	}
	if err := store.UpsertSummary(ctx, summary); err != nil {
		t.Fatalf("failed to upsert summary: %v", err)
	}
	return user
}

func TestExport(t *testing.T) {
	store := newTestStore(t)
	user := seedDataset(t, store)
	ctx := context.Background()

	exp := New(store)
	exportedAt := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	exp.now = func() time.Time { return exportedAt }

	data, filename, err := exp.Export(ctx, user.ID)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if want := "alice-smith-backup-20240701T120000Z.xlsx"; filename != want {
		t.Errorf("expected filename %s, got %s", want, filename)
	}

	f, err := workbook.Open(data)
	if err != nil {
		t.Fatalf("failed to reopen export: %v", err)
	}
	defer f.Close()

	layout, err := workbook.Detect(f)
	if err != nil || layout != workbook.LayoutModernBackup {
		t.Fatalf("expected modern layout, got %s (%v)", layout, err)
	}

	batch := workbook.ParseModern(f)
	if len(batch.Failures) != 0 {
		t.Fatalf("export reparsed with failures: %v", batch.Failures)
	}
	if len(batch.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(batch.Transactions))
	}
	tx := batch.Transactions[0]
	if tx.Category != "Food" || tx.PaymentMethod != "Debit" {
		t.Errorf("expected references exported by name, got %q / %q", tx.Category, tx.PaymentMethod)
	}
	if len(batch.Accounts) != 1 || batch.Accounts[0].Description != "Rent" {
		t.Errorf("accounts did not export: %+v", batch.Accounts)
	}
	if len(batch.Summaries) != 1 || batch.Summaries[0].Month != 6 {
		t.Errorf("summaries did not export: %+v", batch.Summaries)
	}

	// The export timestamp lands in the owner's config and in the workbook.
	cfg, err := store.GetUserConfig(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.LastExportAt != exportedAt.Unix() {
		t.Errorf("expected last export %d, got %d", exportedAt.Unix(), cfg.LastExportAt)
	}
	if batch.Config == nil || batch.Config.Currency != "BRL" {
		t.Errorf("expected config sheet with default currency, got %+v", batch.Config)
	}
}

func TestExport_Deterministic(t *testing.T) {
	store := newTestStore(t)
	user := seedDataset(t, store)
	ctx := context.Background()

	exp := New(store)
	exp.now = func() time.Time { return time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC) }

	first, _, err := exp.Export(ctx, user.ID)
	if err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	second, _, err := exp.Export(ctx, user.ID)
	if err != nil {
		t.Fatalf("second export failed: %v", err)
	}

	fa, err := workbook.Open(first)
	if err != nil {
		t.Fatalf("failed to reopen first export: %v", err)
	}
	defer fa.Close()
	fb, err := workbook.Open(second)
	if err != nil {
		t.Fatalf("failed to reopen second export: %v", err)
	}
	defer fb.Close()

	a, b := workbook.ParseModern(fa), workbook.ParseModern(fb)
	if len(a.Transactions) != len(b.Transactions) {
		t.Fatalf("transaction counts differ: %d vs %d", len(a.Transactions), len(b.Transactions))
	}
	for i := range a.Transactions {
		ta, tb := a.Transactions[i], b.Transactions[i]
		if !ta.Date.Equal(tb.Date) || !ta.Amount.Equal(tb.Amount) || ta.Description != tb.Description {
			t.Errorf("transaction %d differs between exports", i)
		}
	}
}

func TestExport_EmptyDataset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := models.NewUser("bob@example.com", "", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	exp := New(store)
	data, filename, err := exp.Export(ctx, user.ID)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected workbook bytes")
	}
	// Empty display name falls back to the owner ID.
	if !strings.Contains(filename, user.ID) {
		t.Errorf("expected owner id in filename, got %s", filename)
	}

	f, err := workbook.Open(data)
	if err != nil {
		t.Fatalf("failed to reopen export: %v", err)
	}
	defer f.Close()
	batch := workbook.ParseModern(f)
	if len(batch.Transactions) != 0 || len(batch.Categories) != 0 {
		t.Errorf("expected empty sheets, got %+v", batch)
	}
}
