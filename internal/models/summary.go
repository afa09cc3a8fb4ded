package models

import "github.com/shopspring/decimal"

// MonthlySummary is a cached income/expense aggregate for one
// (owner, year, month). It is derived from transaction data and recomputed
// synchronously after writes; it is never authoritative over transactions.
type MonthlySummary struct {
	OwnerID string
	Year    int
	Month   int // 1..12

	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// UserConfig holds per-user settings and export bookkeeping.
type UserConfig struct {
	OwnerID string

	// Currency is the display currency code (default "BRL").
	Currency string

	// LastExportAt is the Unix timestamp of the last successful backup
	// export, or 0 if the user has never exported. Updated only by the
	// exporter, never by the importer.
	LastExportAt int64
}
