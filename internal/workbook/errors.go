package workbook

import (
	"errors"
	"fmt"
)

// Call-level failures. Everything else the parsers encounter is collected
// into the batch as row failures instead of being returned.
var (
	// ErrCorruptFile means the uploaded bytes could not be opened as a
	// spreadsheet at all.
	ErrCorruptFile = errors.New("file cannot be opened as a workbook")

	// ErrUnrecognizedLayout means the workbook opened fine but matches
	// neither the modern backup nor the legacy yearly layout.
	ErrUnrecognizedLayout = errors.New("workbook layout not recognized")
)

// CellError reports a single cell whose value could not be coerced to the
// expected type. One bad cell never aborts its sheet.
type CellError struct {
	Sheet  string
	Row    int    // 1-based physical row
	Column string // spreadsheet column name ("A", "B", ...) or header name
	Reason string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet %q cell %s%d: %s", e.Sheet, e.Column, e.Row, e.Reason)
}

// SheetError reports a present sheet that is missing a required column.
// All rows of that sheet fail; other sheets continue parsing.
type SheetError struct {
	Sheet  string
	Column string
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q is missing required column %q", e.Sheet, e.Column)
}

// RowFailure is one collected row- or sheet-level parsing problem.
type RowFailure struct {
	Sheet  string
	Row    int
	Reason string
}

func (f RowFailure) String() string {
	return fmt.Sprintf("%s row %d: %s", f.Sheet, f.Row, f.Reason)
}
