// Package calculator derives cached monthly aggregates from transaction
// data. Recomputation is an explicit, synchronous call made by writers right
// after they touch transactions — there is no listener or signal machinery
// keeping summaries in sync implicitly.
package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/cashbook/internal/models"
)

// MonthKey identifies one calendar month of one owner's ledger.
type MonthKey struct {
	Year  int
	Month int
}

// SummarizeMonth folds a month's transactions into a summary row. Income and
// expense totals accumulate separately; the transaction kind decides which
// side each amount lands on.
func SummarizeMonth(ownerID string, key MonthKey, txs []models.Transaction) models.MonthlySummary {
	summary := models.MonthlySummary{
		OwnerID:      ownerID,
		Year:         key.Year,
		Month:        key.Month,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, tx := range txs {
		if tx.Kind == models.KindIncome {
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(tx.Amount)
		}
	}
	return summary
}

// AffectedMonths returns the distinct months the given transactions fall
// into, sorted chronologically.
func AffectedMonths(txs []models.Transaction) []MonthKey {
	seen := make(map[MonthKey]bool)
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		seen[MonthKey{Year: tx.Date.Year(), Month: int(tx.Date.Month())}] = true
	}

	keys := make([]MonthKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year < keys[j].Year
		}
		return keys[i].Month < keys[j].Month
	})
	return keys
}
