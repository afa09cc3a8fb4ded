package workbook

import (
	"github.com/xuri/excelize/v2"
)

// Required columns per modern sheet. A present sheet missing one of these
// fails wholesale (every row of it); absent sheets are simply empty.
var requiredColumns = map[string][]string{
	SheetTransactions:   {"date", "kind", "amount"},
	SheetCategories:     {"name", "kind"},
	SheetPaymentMethods: {"name"},
	SheetAccounts:       {"description", "amount", "due_date"},
	SheetSummaries:      {"year", "month", "total_income", "total_expense"},
	SheetConfig:         nil,
}

// ParseModern reads the canonical entity sheets of a ModernBackup workbook
// into canonical rows. Sheets are looked up by name (case-insensitive),
// never by position; columns likewise by header name. Provenance columns on
// transaction rows are read back as-is, so a re-imported export never
// collapses legacy provenance into "native".
func ParseModern(f *excelize.File) *Batch {
	batch := &Batch{Layout: LayoutModernBackup}
	byName := sheetByName(f)

	if sheet, ok := byName[SheetCategories]; ok {
		parseModernSheet(f, sheet, SheetCategories, batch, parseCategoryRow)
	}
	if sheet, ok := byName[SheetPaymentMethods]; ok {
		parseModernSheet(f, sheet, SheetPaymentMethods, batch, parsePaymentMethodRow)
	}
	if sheet, ok := byName[SheetAccounts]; ok {
		parseModernSheet(f, sheet, SheetAccounts, batch, parseAccountRow)
	}
	if sheet, ok := byName[SheetTransactions]; ok {
		parseModernSheet(f, sheet, SheetTransactions, batch, parseTransactionRow)
	}
	if sheet, ok := byName[SheetSummaries]; ok {
		parseModernSheet(f, sheet, SheetSummaries, batch, parseSummaryRow)
	}
	if sheet, ok := byName[SheetConfig]; ok {
		parseModernSheet(f, sheet, SheetConfig, batch, parseConfigRow)
	}
	return batch
}

// header maps normalized column names to indices for one sheet.
type header map[string]int

func (h header) get(row []string, name string) string {
	idx, ok := h[name]
	if !ok {
		return ""
	}
	return cell(row, idx)
}

// parseModernSheet runs the shared header/row loop: validate required
// columns, then hand each data row to the per-sheet parser. Row failures are
// collected; they never stop the loop.
func parseModernSheet(f *excelize.File, sheet, canonical string, batch *Batch, parse func(h header, row []string, rowNum int, batch *Batch) error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		batch.fail(sheet, 0, err)
		return
	}
	if len(rows) == 0 {
		return
	}

	h := make(header, len(rows[0]))
	for i, name := range rows[0] {
		h[normalizeName(name)] = i
	}
	for _, col := range requiredColumns[canonical] {
		if _, ok := h[col]; !ok {
			batch.fail(sheet, 1, &SheetError{Sheet: sheet, Column: col})
			return
		}
	}

	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		if err := parse(h, row, rowNum, batch); err != nil {
			batch.fail(sheet, rowNum, err)
		}
	}
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

func parseCategoryRow(h header, row []string, rowNum int, batch *Batch) error {
	kind, err := parseKindCell(h.get(row, "kind"))
	if err != nil {
		return &CellError{Sheet: SheetCategories, Row: rowNum, Column: "kind", Reason: err.Error()}
	}
	batch.Categories = append(batch.Categories, CategoryRow{
		Name: h.get(row, "name"),
		Kind: kind,
	})
	return nil
}

func parsePaymentMethodRow(h header, row []string, rowNum int, batch *Batch) error {
	batch.PaymentMethods = append(batch.PaymentMethods, PaymentMethodRow{
		Name: h.get(row, "name"),
	})
	return nil
}

func parseAccountRow(h header, row []string, rowNum int, batch *Batch) error {
	amount, err := parseAmount(h.get(row, "amount"))
	if err != nil {
		return &CellError{Sheet: SheetAccounts, Row: rowNum, Column: "amount", Reason: err.Error()}
	}
	dueDate, err := parseDateCell(h.get(row, "due_date"))
	if err != nil {
		return &CellError{Sheet: SheetAccounts, Row: rowNum, Column: "due_date", Reason: err.Error()}
	}

	acc := AccountRow{
		Description: h.get(row, "description"),
		Amount:      amount,
		DueDate:     dueDate,
		Paid:        parseBoolCell(h.get(row, "paid")),
	}
	if raw := h.get(row, "paid_date"); raw != "" {
		paidDate, err := parseDateCell(raw)
		if err != nil {
			return &CellError{Sheet: SheetAccounts, Row: rowNum, Column: "paid_date", Reason: err.Error()}
		}
		acc.PaidDate = paidDate
	}
	batch.Accounts = append(batch.Accounts, acc)
	return nil
}

func parseTransactionRow(h header, row []string, rowNum int, batch *Batch) error {
	date, err := parseDateCell(h.get(row, "date"))
	if err != nil {
		return &CellError{Sheet: SheetTransactions, Row: rowNum, Column: "date", Reason: err.Error()}
	}
	kind, err := parseKindCell(h.get(row, "kind"))
	if err != nil {
		return &CellError{Sheet: SheetTransactions, Row: rowNum, Column: "kind", Reason: err.Error()}
	}
	amount, err := parseAmount(h.get(row, "amount"))
	if err != nil {
		return &CellError{Sheet: SheetTransactions, Row: rowNum, Column: "amount", Reason: err.Error()}
	}
	originRow, err := parseIntCell(h.get(row, "origin_row"))
	if err != nil {
		return &CellError{Sheet: SheetTransactions, Row: rowNum, Column: "origin_row", Reason: err.Error()}
	}
	originMonth, err := parseIntCell(h.get(row, "origin_month"))
	if err != nil {
		return &CellError{Sheet: SheetTransactions, Row: rowNum, Column: "origin_month", Reason: err.Error()}
	}

	batch.Transactions = append(batch.Transactions, TransactionRow{
		Date:          date,
		Kind:          kind,
		Amount:        amount,
		Description:   h.get(row, "description"),
		Category:      h.get(row, "category"),
		PaymentMethod: h.get(row, "payment_method"),
		IsLegacy:      parseBoolCell(h.get(row, "is_legacy")),
		OriginSheet:   h.get(row, "origin_sheet"),
		OriginRow:     originRow,
		OriginMonth:   originMonth,
	})
	return nil
}

func parseSummaryRow(h header, row []string, rowNum int, batch *Batch) error {
	year, err := parseIntCell(h.get(row, "year"))
	if err != nil || year == 0 {
		return &CellError{Sheet: SheetSummaries, Row: rowNum, Column: "year", Reason: "not a year"}
	}
	month, err := parseIntCell(h.get(row, "month"))
	if err != nil || month < 1 || month > 12 {
		return &CellError{Sheet: SheetSummaries, Row: rowNum, Column: "month", Reason: "not a month"}
	}
	income, err := parseAmount(h.get(row, "total_income"))
	if err != nil {
		return &CellError{Sheet: SheetSummaries, Row: rowNum, Column: "total_income", Reason: err.Error()}
	}
	expense, err := parseAmount(h.get(row, "total_expense"))
	if err != nil {
		return &CellError{Sheet: SheetSummaries, Row: rowNum, Column: "total_expense", Reason: err.Error()}
	}

	batch.Summaries = append(batch.Summaries, SummaryRow{
		Year:         year,
		Month:        month,
		TotalIncome:  income,
		TotalExpense: expense,
	})
	return nil
}

func parseConfigRow(h header, row []string, rowNum int, batch *Batch) error {
	if batch.Config != nil {
		return nil // only the first data row counts
	}
	cfg := &ConfigRow{Currency: h.get(row, "currency")}
	if raw := h.get(row, "last_export_at"); raw != "" {
		ts, err := parseTimestampCell(raw)
		if err != nil {
			return &CellError{Sheet: SheetConfig, Row: rowNum, Column: "last_export_at", Reason: err.Error()}
		}
		cfg.LastExportAt = ts
	}
	batch.Config = cfg
	return nil
}
