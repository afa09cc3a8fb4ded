package workbook

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Column orders for written sheets. The parser only cares about header
// names, but stable order keeps exports diffable.
var (
	transactionColumns = []string{"date", "kind", "amount", "description", "category", "payment_method", "is_legacy", "origin_sheet", "origin_row", "origin_month"}
	categoryColumns    = []string{"name", "kind"}
	paymentColumns     = []string{"name"}
	accountColumns     = []string{"description", "amount", "due_date", "paid", "paid_date"}
	summaryColumns     = []string{"year", "month", "total_income", "total_expense"}
	configColumns      = []string{"currency", "last_export_at"}
)

// Write serializes a batch into ModernBackup workbook bytes. It is the exact
// inverse of ParseModern: ParseModern(Write(b)) reproduces b, including
// legacy provenance columns. Rows are written in the order given; callers
// that need deterministic output sort the batch first.
func Write(b *Batch) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet instead of leaving an empty Sheet1 around.
	if err := f.SetSheetName(f.GetSheetName(0), SheetTransactions); err != nil {
		return nil, fmt.Errorf("renaming default sheet: %w", err)
	}
	for _, sheet := range []string{SheetCategories, SheetPaymentMethods, SheetAccounts, SheetSummaries, SheetConfig} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", sheet, err)
		}
	}

	if err := writeTransactions(f, b.Transactions); err != nil {
		return nil, err
	}
	if err := writeCategories(f, b.Categories); err != nil {
		return nil, err
	}
	if err := writePaymentMethods(f, b.PaymentMethods); err != nil {
		return nil, err
	}
	if err := writeAccounts(f, b.Accounts); err != nil {
		return nil, err
	}
	if err := writeSummaries(f, b.Summaries); err != nil {
		return nil, err
	}
	if err := writeConfig(f, b.Config); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, axis, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, columns []string) error {
	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = c
	}
	return writeRow(f, sheet, 1, values)
}

func writeTransactions(f *excelize.File, txs []TransactionRow) error {
	if err := writeHeader(f, SheetTransactions, transactionColumns); err != nil {
		return err
	}
	for i, tx := range txs {
		originRow, originMonth := "", ""
		if tx.IsLegacy {
			originRow = strconv.Itoa(tx.OriginRow)
			originMonth = strconv.Itoa(tx.OriginMonth)
		}
		err := writeRow(f, SheetTransactions, i+2, []interface{}{
			tx.Date.Format(dateLayout),
			tx.Kind,
			tx.Amount.StringFixed(2),
			tx.Description,
			tx.Category,
			tx.PaymentMethod,
			strconv.FormatBool(tx.IsLegacy),
			tx.OriginSheet,
			originRow,
			originMonth,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeCategories(f *excelize.File, cats []CategoryRow) error {
	if err := writeHeader(f, SheetCategories, categoryColumns); err != nil {
		return err
	}
	for i, c := range cats {
		if err := writeRow(f, SheetCategories, i+2, []interface{}{c.Name, c.Kind}); err != nil {
			return err
		}
	}
	return nil
}

func writePaymentMethods(f *excelize.File, pms []PaymentMethodRow) error {
	if err := writeHeader(f, SheetPaymentMethods, paymentColumns); err != nil {
		return err
	}
	for i, pm := range pms {
		if err := writeRow(f, SheetPaymentMethods, i+2, []interface{}{pm.Name}); err != nil {
			return err
		}
	}
	return nil
}

func writeAccounts(f *excelize.File, accounts []AccountRow) error {
	if err := writeHeader(f, SheetAccounts, accountColumns); err != nil {
		return err
	}
	for i, a := range accounts {
		paidDate := ""
		if !a.PaidDate.IsZero() {
			paidDate = a.PaidDate.Format(dateLayout)
		}
		err := writeRow(f, SheetAccounts, i+2, []interface{}{
			a.Description,
			a.Amount.StringFixed(2),
			a.DueDate.Format(dateLayout),
			strconv.FormatBool(a.Paid),
			paidDate,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeSummaries(f *excelize.File, summaries []SummaryRow) error {
	if err := writeHeader(f, SheetSummaries, summaryColumns); err != nil {
		return err
	}
	for i, s := range summaries {
		err := writeRow(f, SheetSummaries, i+2, []interface{}{
			strconv.Itoa(s.Year),
			strconv.Itoa(s.Month),
			s.TotalIncome.StringFixed(2),
			s.TotalExpense.StringFixed(2),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeConfig(f *excelize.File, cfg *ConfigRow) error {
	if err := writeHeader(f, SheetConfig, configColumns); err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}
	lastExport := ""
	if !cfg.LastExportAt.IsZero() {
		lastExport = cfg.LastExportAt.UTC().Format(dateTimeLayout)
	}
	return writeRow(f, SheetConfig, 2, []interface{}{cfg.Currency, lastExport})
}
