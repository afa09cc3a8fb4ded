package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry: one income or expense on a calendar
// date. Amounts are stored as exact decimals (two fractional digits by
// convention) so backups round-trip without float drift.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// OwnerID is the user this transaction belongs to.
	OwnerID string

	// Date is the calendar date of the transaction. Time of day is not
	// meaningful; it is always midnight UTC.
	Date time.Time

	// Kind is KindIncome or KindExpense. Amounts are unsigned; the kind
	// carries the sign.
	Kind string

	// Amount is the transaction value. Zero and negative values coming from
	// imports are preserved, not dropped.
	Amount decimal.Decimal

	// Description is free text shown in the ledger.
	Description string

	// CategoryID references the owner's category, or "" when uncategorized.
	CategoryID string

	// PaymentMethodID references the owner's payment method, or "".
	PaymentMethodID string

	// IsLegacy marks a transaction reconstructed from a legacy yearly
	// spreadsheet cell rather than entered natively.
	IsLegacy bool

	// OriginSheet, OriginRow and OriginMonth are the physical coordinates of
	// the legacy cell this transaction was reconstructed from. Zero values
	// for natively created transactions.
	OriginSheet string
	OriginRow   int
	OriginMonth int

	// CreatedAt is the Unix timestamp when the transaction was created.
	CreatedAt int64
}

// Account is a bill to pay: an expected amount with a due date that may be
// marked paid. The import/export engine reads and writes accounts but marking
// one paid is handled by the surrounding CRUD layer.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string

	// OwnerID is the user this account belongs to.
	OwnerID string

	// Description names the bill (e.g. "Rent", "Electricity").
	Description string

	// Amount is the expected amount due.
	Amount decimal.Decimal

	// DueDate is when the bill is due.
	DueDate time.Time

	// Paid reports whether the bill has been paid.
	Paid bool

	// PaidDate is the date the bill was paid. Zero when unpaid.
	PaidDate time.Time

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
