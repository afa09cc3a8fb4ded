package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/cashbook/internal/calculator"
	"github.com/mmynk/cashbook/internal/models"
	"github.com/mmynk/cashbook/internal/storage"
	"github.com/mmynk/cashbook/internal/workbook"
)

// result aggregates reconciliation outcomes. Failed rows carry a reason each;
// they never abort the batch.
type result struct {
	created int
	updated int
	skipped int
	failed  int
	reasons []string
}

func (r *result) fail(reason string) {
	r.failed++
	r.reasons = append(r.reasons, reason)
}

// reconciler merges one parsed batch into an owner's dataset. References are
// resolved by case-insensitive name, creating categories and payment methods
// on demand; conflicting transactions follow the overwrite policy.
type reconciler struct {
	store     storage.Store
	ownerID   string
	overwrite bool

	categories map[string]*models.Category      // lower(name) -> category
	payments   map[string]*models.PaymentMethod // lower(name) -> method

	res result
}

func newReconciler(store storage.Store, ownerID string, overwrite bool) *reconciler {
	return &reconciler{
		store:      store,
		ownerID:    ownerID,
		overwrite:  overwrite,
		categories: make(map[string]*models.Category),
		payments:   make(map[string]*models.PaymentMethod),
	}
}

// reconcile applies the batch. A returned error is a storage failure and
// aborts the call; everything row-shaped lands in the result instead.
func (rc *reconciler) reconcile(ctx context.Context, batch *workbook.Batch) (*result, error) {
	if err := rc.loadNames(ctx); err != nil {
		return nil, err
	}
	if err := rc.applyCategories(ctx, batch.Categories); err != nil {
		return nil, err
	}
	if err := rc.applyPaymentMethods(ctx, batch.PaymentMethods); err != nil {
		return nil, err
	}
	if err := rc.applyAccounts(ctx, batch.Accounts); err != nil {
		return nil, err
	}
	affected, err := rc.applyTransactions(ctx, batch.Transactions)
	if err != nil {
		return nil, err
	}
	if err := rc.applySummaries(ctx, batch.Summaries, affected); err != nil {
		return nil, err
	}
	if err := rc.applyConfig(ctx, batch.Config); err != nil {
		return nil, err
	}
	return &rc.res, nil
}

func (rc *reconciler) loadNames(ctx context.Context) error {
	cats, err := rc.store.ListCategories(ctx, rc.ownerID)
	if err != nil {
		return err
	}
	for i := range cats {
		rc.categories[strings.ToLower(cats[i].Name)] = &cats[i]
	}

	pms, err := rc.store.ListPaymentMethods(ctx, rc.ownerID)
	if err != nil {
		return err
	}
	for i := range pms {
		rc.payments[strings.ToLower(pms[i].Name)] = &pms[i]
	}
	return nil
}

// resolveCategory returns the ID of the owner's category with the given name,
// creating it with the given kind when absent. Empty names resolve to "".
func (rc *reconciler) resolveCategory(ctx context.Context, name, kind string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	if existing, ok := rc.categories[strings.ToLower(name)]; ok {
		return existing.ID, nil
	}

	cat := &models.Category{OwnerID: rc.ownerID, Name: name, Kind: kind}
	if err := rc.store.CreateCategory(ctx, cat); err != nil {
		return "", err
	}
	rc.categories[strings.ToLower(name)] = cat
	return cat.ID, nil
}

func (rc *reconciler) resolvePaymentMethod(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	if existing, ok := rc.payments[strings.ToLower(name)]; ok {
		return existing.ID, nil
	}

	pm := &models.PaymentMethod{OwnerID: rc.ownerID, Name: name}
	if err := rc.store.CreatePaymentMethod(ctx, pm); err != nil {
		return "", err
	}
	rc.payments[strings.ToLower(name)] = pm
	return pm.ID, nil
}

func (rc *reconciler) applyCategories(ctx context.Context, rows []workbook.CategoryRow) error {
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			rc.res.fail("categories: row with empty name")
			continue
		}
		if _, ok := rc.categories[strings.ToLower(name)]; ok {
			rc.res.skipped++
			continue
		}
		if _, err := rc.resolveCategory(ctx, name, row.Kind); err != nil {
			return err
		}
		rc.res.created++
	}
	return nil
}

func (rc *reconciler) applyPaymentMethods(ctx context.Context, rows []workbook.PaymentMethodRow) error {
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			rc.res.fail("payment_methods: row with empty name")
			continue
		}
		if _, ok := rc.payments[strings.ToLower(name)]; ok {
			rc.res.skipped++
			continue
		}
		if _, err := rc.resolvePaymentMethod(ctx, name); err != nil {
			return err
		}
		rc.res.created++
	}
	return nil
}

// Transactions match on the exact (date, amount, category, payment method,
// description) tuple. Under overwrite, a row whose amount changed still finds
// its old version through the looser (date, category, payment method,
// description) key and updates it in place instead of duplicating.
type txIndex struct {
	exact   map[string][]*models.Transaction
	loose   map[string][]*models.Transaction
	claimed map[string]bool // transaction IDs already matched this import
}

func exactKey(date, amount, categoryID, paymentMethodID, description string) string {
	return strings.Join([]string{date, amount, categoryID, paymentMethodID, description}, "\x1f")
}

func looseKey(date, categoryID, paymentMethodID, description string) string {
	return strings.Join([]string{date, categoryID, paymentMethodID, description}, "\x1f")
}

func (ix *txIndex) add(tx *models.Transaction) {
	date := tx.Date.Format("2006-01-02")
	ek := exactKey(date, tx.Amount.StringFixed(2), tx.CategoryID, tx.PaymentMethodID, tx.Description)
	lk := looseKey(date, tx.CategoryID, tx.PaymentMethodID, tx.Description)
	ix.exact[ek] = append(ix.exact[ek], tx)
	ix.loose[lk] = append(ix.loose[lk], tx)
}

func (ix *txIndex) claim(candidates []*models.Transaction) *models.Transaction {
	for _, tx := range candidates {
		if !ix.claimed[tx.ID] {
			ix.claimed[tx.ID] = true
			return tx
		}
	}
	return nil
}

func (rc *reconciler) applyTransactions(ctx context.Context, rows []workbook.TransactionRow) ([]calculator.MonthKey, error) {
	existing, err := rc.store.ListTransactions(ctx, rc.ownerID)
	if err != nil {
		return nil, err
	}
	ix := &txIndex{
		exact:   make(map[string][]*models.Transaction),
		loose:   make(map[string][]*models.Transaction),
		claimed: make(map[string]bool),
	}
	for i := range existing {
		ix.add(&existing[i])
	}

	months := make(map[calculator.MonthKey]bool)

	for _, row := range rows {
		categoryID, err := rc.resolveCategory(ctx, row.Category, row.Kind)
		if err != nil {
			return nil, err
		}
		paymentMethodID, err := rc.resolvePaymentMethod(ctx, row.PaymentMethod)
		if err != nil {
			return nil, err
		}

		date := row.Date.Format("2006-01-02")
		amount := row.Amount.StringFixed(2)
		months[calculator.MonthKey{Year: row.Date.Year(), Month: int(row.Date.Month())}] = true

		if match := ix.claim(ix.exact[exactKey(date, amount, categoryID, paymentMethodID, row.Description)]); match != nil {
			if !rc.overwrite {
				rc.res.skipped++
				continue
			}
			rc.updateTransaction(match, row, categoryID, paymentMethodID)
			if err := rc.store.UpdateTransaction(ctx, match); err != nil {
				return nil, err
			}
			rc.res.updated++
			continue
		}

		if rc.overwrite {
			if match := ix.claim(ix.loose[looseKey(date, categoryID, paymentMethodID, row.Description)]); match != nil {
				rc.updateTransaction(match, row, categoryID, paymentMethodID)
				if err := rc.store.UpdateTransaction(ctx, match); err != nil {
					return nil, err
				}
				rc.res.updated++
				continue
			}
		}

		tx := &models.Transaction{
			OwnerID:         rc.ownerID,
			Date:            row.Date,
			Kind:            row.Kind,
			Amount:          row.Amount,
			Description:     row.Description,
			CategoryID:      categoryID,
			PaymentMethodID: paymentMethodID,
			IsLegacy:        row.IsLegacy,
			OriginSheet:     row.OriginSheet,
			OriginRow:       row.OriginRow,
			OriginMonth:     row.OriginMonth,
		}
		if err := rc.store.CreateTransaction(ctx, tx); err != nil {
			return nil, err
		}
		ix.add(tx)
		ix.claimed[tx.ID] = true
		rc.res.created++
	}

	keys := make([]calculator.MonthKey, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	return keys, nil
}

func (rc *reconciler) updateTransaction(tx *models.Transaction, row workbook.TransactionRow, categoryID, paymentMethodID string) {
	tx.Kind = row.Kind
	tx.Amount = row.Amount
	tx.CategoryID = categoryID
	tx.PaymentMethodID = paymentMethodID
	tx.IsLegacy = row.IsLegacy
	tx.OriginSheet = row.OriginSheet
	tx.OriginRow = row.OriginRow
	tx.OriginMonth = row.OriginMonth
}

// Accounts match the same way transactions do: exact on (description,
// due date, amount), loose on (description, due date) under overwrite.
func (rc *reconciler) applyAccounts(ctx context.Context, rows []workbook.AccountRow) error {
	if len(rows) == 0 {
		return nil
	}
	existing, err := rc.store.ListAccounts(ctx, rc.ownerID)
	if err != nil {
		return err
	}

	exact := make(map[string][]*models.Account)
	loose := make(map[string][]*models.Account)
	claimed := make(map[string]bool)
	for i := range existing {
		a := &existing[i]
		due := a.DueDate.Format("2006-01-02")
		desc := strings.ToLower(a.Description)
		ek := strings.Join([]string{desc, due, a.Amount.StringFixed(2)}, "\x1f")
		lk := strings.Join([]string{desc, due}, "\x1f")
		exact[ek] = append(exact[ek], a)
		loose[lk] = append(loose[lk], a)
	}
	claim := func(candidates []*models.Account) *models.Account {
		for _, a := range candidates {
			if !claimed[a.ID] {
				claimed[a.ID] = true
				return a
			}
		}
		return nil
	}

	for _, row := range rows {
		desc := strings.TrimSpace(row.Description)
		if desc == "" {
			rc.res.fail("accounts: row with empty description")
			continue
		}
		due := row.DueDate.Format("2006-01-02")
		lowDesc := strings.ToLower(desc)

		if match := claim(exact[strings.Join([]string{lowDesc, due, row.Amount.StringFixed(2)}, "\x1f")]); match != nil {
			if !rc.overwrite {
				rc.res.skipped++
				continue
			}
			match.Paid = row.Paid
			match.PaidDate = row.PaidDate
			if err := rc.store.UpdateAccount(ctx, match); err != nil {
				return err
			}
			rc.res.updated++
			continue
		}
		if rc.overwrite {
			if match := claim(loose[strings.Join([]string{lowDesc, due}, "\x1f")]); match != nil {
				match.Amount = row.Amount
				match.Paid = row.Paid
				match.PaidDate = row.PaidDate
				if err := rc.store.UpdateAccount(ctx, match); err != nil {
					return err
				}
				rc.res.updated++
				continue
			}
		}

		account := &models.Account{
			OwnerID:     rc.ownerID,
			Description: desc,
			Amount:      row.Amount,
			DueDate:     row.DueDate,
			Paid:        row.Paid,
			PaidDate:    row.PaidDate,
		}
		if err := rc.store.CreateAccount(ctx, account); err != nil {
			return err
		}
		rc.res.created++
	}
	return nil
}

// applySummaries upserts incoming summary rows unconditionally (they are
// caches, the overwrite flag does not apply), then recomputes any month the
// imported transactions touched that the workbook did not supply a summary
// for.
func (rc *reconciler) applySummaries(ctx context.Context, rows []workbook.SummaryRow, affected []calculator.MonthKey) error {
	supplied := make(map[calculator.MonthKey]bool, len(rows))
	for _, row := range rows {
		supplied[calculator.MonthKey{Year: row.Year, Month: row.Month}] = true
		err := rc.store.UpsertSummary(ctx, &models.MonthlySummary{
			OwnerID:      rc.ownerID,
			Year:         row.Year,
			Month:        row.Month,
			TotalIncome:  row.TotalIncome,
			TotalExpense: row.TotalExpense,
		})
		if err != nil {
			return err
		}
	}

	for _, key := range affected {
		if supplied[key] {
			continue
		}
		txs, err := rc.store.ListTransactionsByMonth(ctx, rc.ownerID, key.Year, key.Month)
		if err != nil {
			return err
		}
		summary := calculator.SummarizeMonth(rc.ownerID, key, txs)
		if err := rc.store.UpsertSummary(ctx, &summary); err != nil {
			return err
		}
	}
	return nil
}

// applyConfig applies the currency default from the config sheet. The last
// export timestamp belongs to the exporter and is never written here.
func (rc *reconciler) applyConfig(ctx context.Context, row *workbook.ConfigRow) error {
	if row == nil || strings.TrimSpace(row.Currency) == "" {
		return nil
	}
	cfg, err := rc.store.GetUserConfig(ctx, rc.ownerID)
	if err != nil {
		return err
	}
	currency := strings.TrimSpace(row.Currency)
	if cfg.Currency == currency {
		return nil
	}
	cfg.Currency = currency
	if err := rc.store.SaveUserConfig(ctx, cfg); err != nil {
		return fmt.Errorf("applying currency default: %w", err)
	}
	return nil
}
