package core

import (
	"errors"
	"strings"
)

// Kind classifies a core failure.
type Kind string

const (
	KindInvalidFileFormat Kind = "invalid_file_format"
	KindSchemaValidation  Kind = "schema_validation_failed"
	KindParseFailure      Kind = "parse_failure"
	KindEmptyExport       Kind = "empty_export_set"
	KindUnsupportedFormat Kind = "unsupported_export_format"
	KindInvalidSheetName  Kind = "invalid_sheet_name"
	KindNoData            Kind = "no_data_loaded"
)

// Error is the structured outcome of a failed core operation.
type Error struct {
	Kind    Kind
	Message string
	Detail  any   // optional payload, e.g. SchemaDetail
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if b.Len() == 0 {
		b.WriteString(string(e.Kind))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrEmptyExport)
// works regardless of message or detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidFileFormat = &Error{Kind: KindInvalidFileFormat}
	ErrSchemaValidation  = &Error{Kind: KindSchemaValidation}
	ErrParseFailure      = &Error{Kind: KindParseFailure}
	ErrEmptyExport       = &Error{Kind: KindEmptyExport}
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrInvalidSheetName  = &Error{Kind: KindInvalidSheetName}
	ErrNoData            = &Error{Kind: KindNoData}
)

// SchemaDetail is the detail payload of a schema validation failure.
type SchemaDetail struct {
	Missing   []string `json:"missing"`
	Available []string `json:"available"`
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
