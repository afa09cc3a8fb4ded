package workbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// The row types below are the canonical in-memory representation shared by
// both parsers and the writer: parsers turn workbook bytes into a Batch, the
// writer turns a Batch back into workbook bytes. Rows reference categories
// and payment methods by name; IDs are assigned later by the reconciler.

// CategoryRow is one row of the categories sheet.
type CategoryRow struct {
	Name string
	Kind string // models.KindIncome or models.KindExpense
}

// PaymentMethodRow is one row of the payment_methods sheet.
type PaymentMethodRow struct {
	Name string
}

// AccountRow is one row of the accounts sheet (a bill to pay).
type AccountRow struct {
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Paid        bool
	PaidDate    time.Time // zero when unpaid
}

// TransactionRow is one row of the transactions sheet, or one synthetic
// transaction reconstructed from a legacy yearly cell.
type TransactionRow struct {
	Date          time.Time
	Kind          string
	Amount        decimal.Decimal
	Description   string
	Category      string // category name, resolved by the reconciler
	PaymentMethod string // payment method name, resolved by the reconciler

	// Legacy provenance. Preserved verbatim across export/import cycles.
	IsLegacy    bool
	OriginSheet string
	OriginRow   int
	OriginMonth int
}

// SummaryRow is one row of the summaries sheet.
type SummaryRow struct {
	Year         int
	Month        int
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// ConfigRow is the single data row of the config sheet.
type ConfigRow struct {
	Currency     string
	LastExportAt time.Time // zero when the user never exported
}

// Batch is the outcome of parsing one workbook: every canonical record that
// could be read, plus the collected row-level failures. A Batch is produced
// even when every row failed; only corrupt files and unrecognized layouts
// abort parsing entirely.
type Batch struct {
	Layout string

	Categories     []CategoryRow
	PaymentMethods []PaymentMethodRow
	Accounts       []AccountRow
	Transactions   []TransactionRow
	Summaries      []SummaryRow
	Config         *ConfigRow

	Failures []RowFailure
}

func (b *Batch) fail(sheet string, row int, err error) {
	b.Failures = append(b.Failures, RowFailure{Sheet: sheet, Row: row, Reason: err.Error()})
}
