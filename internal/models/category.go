package models

// Category kinds. Stored as stable string values so exports stay readable.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// Category labels a transaction as a particular kind of income or expense.
// Categories are created on demand during reconciliation and are never
// deleted by the import/export engine.
type Category struct {
	// ID is the unique identifier for the category (UUID format).
	ID string

	// OwnerID is the user this category belongs to.
	OwnerID string

	// Name is the display name. Unique per (owner, name, kind) with
	// case-insensitive matching at reconciliation time.
	Name string

	// Kind is KindIncome or KindExpense.
	Kind string

	// CreatedAt is the Unix timestamp when the category was created.
	CreatedAt int64
}

// PaymentMethod is a user-defined way of paying (e.g. "Pix", "Credit Card").
// Unique per (owner, name), case-insensitive.
type PaymentMethod struct {
	// ID is the unique identifier for the payment method (UUID format).
	ID string

	// OwnerID is the user this payment method belongs to.
	OwnerID string

	// Name is the display name.
	Name string

	// CreatedAt is the Unix timestamp when the payment method was created.
	CreatedAt int64
}
