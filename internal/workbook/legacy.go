package workbook

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ParseLegacy converts a LegacyYearly workbook into canonical rows.
//
// For each year sheet, each legacy row label and each of the 12 month columns
// (B through M) holding a non-empty value, one synthetic transaction is
// emitted dated the first day of that month, with the row label as both
// category name and description, and the physical cell coordinates recorded
// as provenance. Zero and negative amounts are kept. A non-numeric cell
// fails that cell only; the rest of the sheet keeps parsing.
//
// Monthly summaries are accumulated alongside, one per (year, month) that
// produced at least one transaction.
func ParseLegacy(f *excelize.File) *Batch {
	batch := &Batch{Layout: LayoutLegacyYearly}

	for _, sheet := range f.GetSheetList() {
		year, ok := parseYear(sheet)
		if !ok {
			// Detect guarantees year sheets; anything else is skipped.
			continue
		}
		parseLegacySheet(f, sheet, year, batch)
	}
	return batch
}

func parseLegacySheet(f *excelize.File, sheet string, year int, batch *Batch) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		batch.fail(sheet, 0, err)
		return
	}

	summaries := make(map[int]*SummaryRow)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		label, ok := legacyLabels[normalizeLabel(row[0])]
		if !ok {
			continue
		}
		rowNum := i + 1
		categoryName := cell(row, 0)

		for month := 1; month <= 12; month++ {
			raw := cell(row, month) // column B holds January, M holds December
			if raw == "" {
				continue
			}
			amount, err := parseAmount(raw)
			if err != nil {
				col, _ := excelize.ColumnNumberToName(month + 1)
				batch.fail(sheet, rowNum, &CellError{
					Sheet:  sheet,
					Row:    rowNum,
					Column: col,
					Reason: err.Error(),
				})
				continue
			}

			kind := "expense"
			if label.income {
				kind = "income"
			}
			batch.Transactions = append(batch.Transactions, TransactionRow{
				Date:        time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
				Kind:        kind,
				Amount:      amount,
				Description: categoryName,
				Category:    categoryName,
				IsLegacy:    true,
				OriginSheet: sheet,
				OriginRow:   rowNum,
				OriginMonth: month,
			})

			s := summaries[month]
			if s == nil {
				s = &SummaryRow{
					Year:         year,
					Month:        month,
					TotalIncome:  decimal.Zero,
					TotalExpense: decimal.Zero,
				}
				summaries[month] = s
			}
			if label.income {
				s.TotalIncome = s.TotalIncome.Add(amount)
			} else {
				s.TotalExpense = s.TotalExpense.Add(amount)
			}
		}
	}

	months := make([]int, 0, len(summaries))
	for m := range summaries {
		months = append(months, m)
	}
	sort.Ints(months)
	for _, m := range months {
		batch.Summaries = append(batch.Summaries, *summaries[m])
	}
}
