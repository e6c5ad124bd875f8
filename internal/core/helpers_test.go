package core

import (
	"github.com/JonMunkholm/attendance/internal/schema"
	"github.com/JonMunkholm/attendance/internal/sheet"
)

// requiredHeaders is a header row as found in a typical enrollment export.
var requiredHeaders = []string{
	"Unit Desc",
	"Course Offer Desc",
	"Client RefExternal",
	"Client First Name",
	"Client Last Name",
	"Client Email",
}

func student(subject, ref, first, last string) Record {
	return Record{
		schema.UnitDesc:          subject,
		schema.CourseOfferDesc:   subject + " 2026",
		schema.ClientRefExternal: ref,
		schema.ClientFirstName:   first,
		schema.ClientLastName:    last,
		schema.ClientEmail:       first + "@example.com",
	}
}

func textRow(cells ...string) []sheet.Value {
	row := make([]sheet.Value, len(cells))
	for i, c := range cells {
		row[i] = sheet.Text(c)
	}
	return row
}

func sheetData(headers []string, rows ...[]sheet.Value) *sheet.Data {
	return &sheet.Data{SheetName: "Sheet1", Headers: headers, Rows: rows}
}

func refs(t Table) []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r[schema.ClientRefExternal]
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
