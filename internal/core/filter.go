package core

import (
	"strings"

	"github.com/JonMunkholm/attendance/internal/schema"
)

// enrollmentSearchFields are the fields SearchAll matches against.
var enrollmentSearchFields = []string{
	schema.ClientFirstName,
	schema.ClientLastName,
	schema.ClientRefExternal,
}

// SelectSubject returns the records of t whose unit_desc equals subject
// exactly, in table order.
func SelectSubject(t Table, subject string) Table {
	out := Table{}
	for _, rec := range t {
		if rec[schema.UnitDesc] == subject {
			out = append(out, rec)
		}
	}
	return out
}

// Search returns the records of base where any field value contains term,
// ignoring case. A blank term returns base unchanged.
func Search(base Table, term string) Table {
	if strings.TrimSpace(term) == "" {
		return base
	}
	needle := strings.ToLower(term)

	out := Table{}
	for _, rec := range base {
		for _, v := range rec {
			if strings.Contains(strings.ToLower(v), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// SearchAll looks up students across the whole table by first name, last
// name or reference, ignoring case. A blank term matches nothing.
func SearchAll(t Table, term string) Table {
	out := Table{}
	if strings.TrimSpace(term) == "" {
		return out
	}
	needle := strings.ToLower(term)

	for _, rec := range t {
		for _, key := range enrollmentSearchFields {
			if strings.Contains(strings.ToLower(rec[key]), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// FilterCriteria is the subject and free-text query of a records view.
type FilterCriteria struct {
	Subject string `json:"subject,omitempty"`
	Query   string `json:"query,omitempty"`
}

// WithSubject selects a new subject and clears the query.
func (c FilterCriteria) WithSubject(subject string) FilterCriteria {
	return FilterCriteria{Subject: subject}
}

// WithQuery keeps the subject and replaces the query.
func (c FilterCriteria) WithQuery(query string) FilterCriteria {
	c.Query = query
	return c
}

// Apply narrows t to the subject, when set, and then searches it.
func (c FilterCriteria) Apply(t Table) Table {
	base := t
	if c.Subject != "" {
		base = SelectSubject(t, c.Subject)
	}
	return Search(base, c.Query)
}
