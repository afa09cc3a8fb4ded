package workbook

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cell coercion happens here, at the boundary: every value leaving this file
// is a typed Go value, and every mismatch becomes an explicit error the
// parsers turn into a collected CellError.

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var errEmptyCell = errors.New("empty cell")

// parseAmount coerces a cell to a decimal amount. Both "1234.56" and the
// Brazilian "1.234,56" form are accepted; an optional "R$" prefix is
// stripped.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if s == "" {
		return decimal.Decimal{}, errEmptyCell
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a number: %q", raw)
	}
	return d, nil
}

// parseDateCell coerces a cell to a calendar date. Accepts a bare date or a
// date-time, since spreadsheet editors love turning one into the other.
func parseDateCell(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errEmptyCell
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateTimeLayout, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	// excelize formats date cells with the workbook's number format; the
	// common one is m/d/yy.
	if t, err := time.Parse("1/2/06", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("not a date: %q", raw)
}

// parseTimestampCell coerces a cell to a point in time.
func parseTimestampCell(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errEmptyCell
	}
	for _, layout := range []string{dateTimeLayout, time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not a timestamp: %q", raw)
}

// parseBoolCell coerces a cell to a bool. Empty cells are false.
func parseBoolCell(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "t", "yes", "y", "sim":
		return true
	}
	return false
}

// parseIntCell coerces a cell to an int. Empty cells are 0.
func parseIntCell(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	// Tolerate "3.0" style values written by spreadsheet tools.
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int(fl), nil
}

// parseKindCell coerces a cell to a transaction/category kind.
func parseKindCell(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "income":
		return "income", nil
	case "expense":
		return "expense", nil
	}
	return "", fmt.Errorf("not a kind: %q (want income or expense)", raw)
}

// cell returns the trimmed value at idx, or "" when the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
