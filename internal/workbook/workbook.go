// Package workbook implements the two spreadsheet layouts Cashbook speaks:
// the canonical multi-sheet ModernBackup format produced by the exporter, and
// the LegacyYearly format (one sheet per year, fixed income/expense rows
// across 12 month columns) used by pre-Cashbook spreadsheets.
//
// The package is a pure codec: it converts bytes to canonical rows and back,
// collects per-row problems instead of raising them, and never touches
// storage.
package workbook

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook layouts.
const (
	LayoutModernBackup = "modern_backup"
	LayoutLegacyYearly = "legacy_yearly"
)

// Canonical ModernBackup sheet names.
const (
	SheetTransactions   = "transactions"
	SheetCategories     = "categories"
	SheetPaymentMethods = "payment_methods"
	SheetAccounts       = "accounts"
	SheetSummaries      = "summaries"
	SheetConfig         = "config"
)

var modernSheets = map[string]bool{
	SheetTransactions:   true,
	SheetCategories:     true,
	SheetPaymentMethods: true,
	SheetAccounts:       true,
	SheetSummaries:      true,
	SheetConfig:         true,
}

// Legacy row labels, normalized to upper case. Portuguese labels come from
// the original spreadsheets; English equivalents are accepted too. Each
// distinct label stays its own category on import.
var legacyLabels = map[string]legacyLabel{
	"RECEITA":         {group: rowIncome, income: true},
	"INCOME":          {group: rowIncome, income: true},
	"OUTRAS RECEITAS": {group: rowOtherIncome, income: true},
	"OTHER INCOME":    {group: rowOtherIncome, income: true},
	"GASTOS":          {group: rowExpenses, income: false},
	"EXPENSES":        {group: rowExpenses, income: false},
}

type legacyLabel struct {
	group  int
	income bool
}

const (
	rowIncome = iota
	rowOtherIncome
	rowExpenses
)

// Open parses workbook bytes into an excelize file. The returned error wraps
// ErrCorruptFile when the bytes are not a readable spreadsheet.
func Open(data []byte) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	return f, nil
}

// Detect classifies an opened workbook as ModernBackup or LegacyYearly.
// Detection is a pure inspection of sheet names and legacy row labels; it
// leaves no state behind on failure.
//
// Rules: any sheet named after a canonical entity sheet makes the file a
// ModernBackup. Otherwise every sheet name must be a 4-digit year and each
// year sheet must carry the three legacy row labels in its first column.
func Detect(f *excelize.File) (string, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		return "", ErrUnrecognizedLayout
	}

	for _, name := range names {
		if modernSheets[normalizeName(name)] {
			return LayoutModernBackup, nil
		}
	}

	for _, name := range names {
		if _, ok := parseYear(name); !ok {
			return "", ErrUnrecognizedLayout
		}
		if !hasLegacyLabels(f, name) {
			return "", ErrUnrecognizedLayout
		}
	}
	return LayoutLegacyYearly, nil
}

// hasLegacyLabels reports whether the sheet's first column contains all three
// legacy row groups (income, other income, expenses).
func hasLegacyLabels(f *excelize.File, sheet string) bool {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return false
	}
	seen := make(map[int]bool, 3)
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if label, ok := legacyLabels[normalizeLabel(row[0])]; ok {
			seen[label.group] = true
		}
	}
	return seen[rowIncome] && seen[rowOtherIncome] && seen[rowExpenses]
}

// parseYear interprets a sheet name as a 4-digit calendar year.
func parseYear(name string) (int, bool) {
	s := strings.TrimSpace(name)
	if len(s) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil || year <= 1900 || year >= 2100 {
		return 0, false
	}
	return year, true
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// sheetByName maps normalized sheet names to the actual names in the file,
// so the parser depends on names only, never on sheet order.
func sheetByName(f *excelize.File) map[string]string {
	byName := make(map[string]string)
	for _, name := range f.GetSheetList() {
		byName[strings.ToLower(strings.TrimSpace(name))] = name
	}
	return byName
}
