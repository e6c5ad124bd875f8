// Package sheet reads the first worksheet of an uploaded spreadsheet into
// header-keyed rows.
//
// Cell values cross this boundary as a small sum type (empty, text, number)
// so callers coerce them to strings in one place instead of scattering type
// checks through filter and export logic.
package sheet

import "strconv"

// Kind identifies the type carried by a Value.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
)

// Value is a single cell value.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
}

// Text returns a text cell, or an empty cell for "".
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{Kind: KindText, Text: s}
}

// Number returns a numeric cell.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

// IsEmpty reports whether the cell holds no value.
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// String coerces the cell to its string form. Numbers use the shortest
// decimal representation without exponent, so 12345 becomes "12345".
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
}
