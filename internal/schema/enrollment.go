// Package schema defines the enrollment spreadsheet columns and the
// case-insensitive mapping from incoming header names to canonical keys.
package schema

import "strings"

// Canonical field keys stored on every enrollment record.
const (
	UnitDesc               = "unit_desc"
	CourseOfferDesc        = "course_offer_desc"
	ClientRefExternal      = "client_ref_external"
	ClientFirstName        = "client_first_name"
	ClientLastName         = "client_last_name"
	ClientEmail            = "client_email"
	ClientAlternativeEmail = "client_alternative_email"
	ClientMobile           = "client_mobile"
)

// Field describes one recognized enrollment column.
type Field struct {
	Key         string // Canonical key: "unit_desc"
	Header      string // Match name, lowercase and trimmed: "unit desc"
	Required    bool   // Column must exist in the uploaded sheet
	Description string // Shown in the column guide
}

// EnrollmentFields lists the recognized columns in guide order.
// Required fields come first; the order of required fields is the order
// missing columns are reported in.
var EnrollmentFields = []Field{
	{Key: UnitDesc, Header: "unit desc", Required: true, Description: "Subject/Unit descriptions"},
	{Key: CourseOfferDesc, Header: "course offer desc", Required: true, Description: "Course information"},
	{Key: ClientRefExternal, Header: "client refexternal", Required: true, Description: "Student reference"},
	{Key: ClientFirstName, Header: "client first name", Required: true, Description: "Student first name"},
	{Key: ClientLastName, Header: "client last name", Required: true, Description: "Student last name"},
	{Key: ClientEmail, Header: "client email", Required: true, Description: "Primary email"},
	{Key: ClientAlternativeEmail, Header: "client alternative email", Description: "Secondary email"},
	{Key: ClientMobile, Header: "client mobile", Description: "Mobile number"},
}

var byHeader = func() map[string]Field {
	m := make(map[string]Field, len(EnrollmentFields))
	for _, f := range EnrollmentFields {
		m[f.Header] = f
	}
	return m
}()

// Fold returns the comparison form of a header: trimmed and lowercased.
func Fold(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// Lookup returns the field whose match name equals the folded header.
func Lookup(header string) (Field, bool) {
	f, ok := byHeader[Fold(header)]
	return f, ok
}

// Normalize maps an incoming header to its canonical key, or returns the
// header unchanged when it is not a recognized column. Matching is exact
// on the folded form; there is no partial or fuzzy matching.
func Normalize(header string) string {
	if f, ok := Lookup(header); ok {
		return f.Key
	}
	return header
}

// Required returns the fields that must be present in an upload.
func Required() []Field {
	out := make([]Field, 0, len(EnrollmentFields))
	for _, f := range EnrollmentFields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}
