package core

// validation.go checks an upload's header row against the required columns.
//
// Every parsed row carries a key for every header, so checking the header
// row is the same as checking the first data row.

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/attendance/internal/schema"
)

// ValidationResult is the outcome of checking one header row.
type ValidationResult struct {
	Missing   []string // required header names absent, in schema order
	Available []string // raw headers present, in file order
}

// Valid reports whether no required column is missing.
func (r ValidationResult) Valid() bool {
	return len(r.Missing) == 0
}

// Err returns a schema validation *Error, or nil when r is valid.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{
		Kind:    KindSchemaValidation,
		Message: fmt.Sprintf("missing required columns: %s", strings.Join(r.Missing, ", ")),
		Detail: SchemaDetail{
			Missing:   r.Missing,
			Available: r.Available,
		},
	}
}

// ValidateColumns reports which required headers are absent from headers.
// Matching ignores case and surrounding whitespace.
func ValidateColumns(headers []string) ValidationResult {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[schema.Fold(h)] = true
	}

	result := ValidationResult{Available: append([]string{}, headers...)}
	for _, f := range schema.Required() {
		if !present[f.Header] {
			result.Missing = append(result.Missing, f.Header)
		}
	}
	return result
}
