// Package exporter serializes a user's complete dataset into a ModernBackup
// workbook. The export is a pure projection — no reconciliation — and is
// deterministic: the same dataset always produces the same sheet contents,
// so exports are diffable and re-importable.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/cashbook/internal/metrics"
	"github.com/mmynk/cashbook/internal/storage"
	"github.com/mmynk/cashbook/internal/workbook"
)

// Exporter builds backup workbooks from stored datasets.
type Exporter struct {
	store storage.Store
	now   func() time.Time
}

// New creates an Exporter backed by the given store.
func New(store storage.Store) *Exporter {
	return &Exporter{store: store, now: time.Now}
}

// Export reads the owner's full dataset and returns workbook bytes plus the
// suggested filename. On success the owner's last-export timestamp is
// updated; the export itself never mutates financial records.
//
// Row ordering is fixed by the store queries: transactions by (date, id),
// categories/payment methods by (name, id), accounts by (due date, id),
// summaries by (year, month).
func (e *Exporter) Export(ctx context.Context, ownerID string) ([]byte, string, error) {
	user, err := e.store.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, "", fmt.Errorf("loading owner: %w", err)
	}

	batch, err := e.buildBatch(ctx, ownerID)
	if err != nil {
		return nil, "", err
	}

	data, err := workbook.Write(batch)
	if err != nil {
		return nil, "", fmt.Errorf("writing backup workbook: %w", err)
	}

	exportedAt := e.now().UTC()
	cfg, err := e.store.GetUserConfig(ctx, ownerID)
	if err != nil {
		return nil, "", fmt.Errorf("loading user config: %w", err)
	}
	cfg.LastExportAt = exportedAt.Unix()
	if err := e.store.SaveUserConfig(ctx, cfg); err != nil {
		return nil, "", fmt.Errorf("recording export timestamp: %w", err)
	}

	filename := fmt.Sprintf("%s-backup-%s.xlsx", filenameOwner(user.DisplayName, ownerID), exportedAt.Format("20060102T150405Z"))

	metrics.ExportObserved()
	slog.Info("Export finished",
		"owner_id", ownerID,
		"filename", filename,
		"transactions", len(batch.Transactions),
		"categories", len(batch.Categories),
	)
	return data, filename, nil
}

// buildBatch loads every entity of the owner and resolves category and
// payment method IDs back to names, the only reference form backups carry.
func (e *Exporter) buildBatch(ctx context.Context, ownerID string) (*workbook.Batch, error) {
	batch := &workbook.Batch{Layout: workbook.LayoutModernBackup}

	categories, err := e.store.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
		batch.Categories = append(batch.Categories, workbook.CategoryRow{Name: c.Name, Kind: c.Kind})
	}

	paymentMethods, err := e.store.ListPaymentMethods(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading payment methods: %w", err)
	}
	paymentNames := make(map[string]string, len(paymentMethods))
	for _, pm := range paymentMethods {
		paymentNames[pm.ID] = pm.Name
		batch.PaymentMethods = append(batch.PaymentMethods, workbook.PaymentMethodRow{Name: pm.Name})
	}

	accounts, err := e.store.ListAccounts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	for _, a := range accounts {
		batch.Accounts = append(batch.Accounts, workbook.AccountRow{
			Description: a.Description,
			Amount:      a.Amount,
			DueDate:     a.DueDate,
			Paid:        a.Paid,
			PaidDate:    a.PaidDate,
		})
	}

	transactions, err := e.store.ListTransactions(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	for _, tx := range transactions {
		batch.Transactions = append(batch.Transactions, workbook.TransactionRow{
			Date:          tx.Date,
			Kind:          tx.Kind,
			Amount:        tx.Amount,
			Description:   tx.Description,
			Category:      categoryNames[tx.CategoryID],
			PaymentMethod: paymentNames[tx.PaymentMethodID],
			IsLegacy:      tx.IsLegacy,
			OriginSheet:   tx.OriginSheet,
			OriginRow:     tx.OriginRow,
			OriginMonth:   tx.OriginMonth,
		})
	}

	summaries, err := e.store.ListSummaries(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading summaries: %w", err)
	}
	for _, s := range summaries {
		batch.Summaries = append(batch.Summaries, workbook.SummaryRow{
			Year:         s.Year,
			Month:        s.Month,
			TotalIncome:  s.TotalIncome,
			TotalExpense: s.TotalExpense,
		})
	}

	cfg, err := e.store.GetUserConfig(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading user config: %w", err)
	}
	configRow := &workbook.ConfigRow{Currency: cfg.Currency}
	if cfg.LastExportAt > 0 {
		configRow.LastExportAt = time.Unix(cfg.LastExportAt, 0).UTC()
	}
	batch.Config = configRow

	return batch, nil
}

// filenameOwner turns a display name into something filesystem-friendly.
func filenameOwner(displayName, ownerID string) string {
	name := strings.TrimSpace(strings.ToLower(displayName))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, name)
	if name == "" {
		return ownerID
	}
	return name
}
