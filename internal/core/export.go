package core

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/attendance/internal/schema"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatXLSX, FormatCSV, FormatPDF}

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", &Error{
		Kind:    KindUnsupportedFormat,
		Message: fmt.Sprintf("unsupported export format %q", s),
	}
}

// MultiSheet reports whether the format can hold more than one sheet.
func (f Format) MultiSheet() bool {
	return f != FormatCSV
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// SingleSheetName names the sheet of a single-subject export.
const SingleSheetName = "Attendance List"

// MaxSheetNameLength is the sheet name limit of spreadsheet applications.
const MaxSheetNameLength = 31

// OutputColumns is the fixed header of every attendance sheet.
var OutputColumns = []string{
	"Course",
	"Reference",
	"First Name",
	"Last Name",
	"Email",
	"Alternative Email",
	"Mobile",
	"Subject",
	"Present",
	"Absent",
	"Notes",
}

// AttendanceRow is one student line of an attendance sheet. Present, Absent
// and Notes are left blank for manual completion.
type AttendanceRow struct {
	Course           string
	Reference        string
	FirstName        string
	LastName         string
	Email            string
	AlternativeEmail string
	Mobile           string
	Subject          string
	Present          string
	Absent           string
	Notes            string
}

// Values returns the row in OutputColumns order.
func (r AttendanceRow) Values() []string {
	return []string{
		r.Course,
		r.Reference,
		r.FirstName,
		r.LastName,
		r.Email,
		r.AlternativeEmail,
		r.Mobile,
		r.Subject,
		r.Present,
		r.Absent,
		r.Notes,
	}
}

// ExportSheet is one named sheet of an artifact.
type ExportSheet struct {
	Name string
	Rows []AttendanceRow
}

// Artifact is a rendered-to-be export: a file name and its sheets.
type Artifact struct {
	FileName string
	Format   Format
	Sheets   []ExportSheet
}

// RowCount returns the number of rows across all sheets.
func (a *Artifact) RowCount() int {
	n := 0
	for _, s := range a.Sheets {
		n += len(s.Rows)
	}
	return n
}

// Builder produces export artifacts. The zero value uses the system clock
// and UTC dates.
type Builder struct {
	Now      func() time.Time
	Location *time.Location
}

func (b *Builder) date() string {
	now := time.Now
	if b != nil && b.Now != nil {
		now = b.Now
	}
	loc := time.UTC
	if b != nil && b.Location != nil {
		loc = b.Location
	}
	return now().In(loc).Format("2006-01-02")
}

// BuildRows maps records to attendance rows, in order.
func BuildRows(records []Record) []AttendanceRow {
	rows := make([]AttendanceRow, len(records))
	for i, rec := range records {
		rows[i] = AttendanceRow{
			Course:           rec[schema.CourseOfferDesc],
			Reference:        rec[schema.ClientRefExternal],
			FirstName:        rec[schema.ClientFirstName],
			LastName:         rec[schema.ClientLastName],
			Email:            rec[schema.ClientEmail],
			AlternativeEmail: rec[schema.ClientAlternativeEmail],
			Mobile:           rec[schema.ClientMobile],
			Subject:          rec[schema.UnitDesc],
		}
	}
	return rows
}

// BuildSheet maps records into a sheet called name.
func BuildSheet(records []Record, name string) ExportSheet {
	return ExportSheet{Name: name, Rows: BuildRows(records)}
}

// BuildSingle wraps records in a one-sheet artifact named after label.
func (b *Builder) BuildSingle(records []Record, label string, format Format) (*Artifact, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &Error{
			Kind:    KindEmptyExport,
			Message: fmt.Sprintf("no records to export for %q", label),
		}
	}

	return &Artifact{
		FileName: fmt.Sprintf("Attendance_%s_%s.%s", FileLabel(label), b.date(), format),
		Format:   format,
		Sheets:   []ExportSheet{BuildSheet(records, SingleSheetName)},
	}, nil
}

// BuildAll produces one sheet per subject, in the given order, each holding
// the records of t with that unit_desc. Sheet names are not deduplicated.
func (b *Builder) BuildAll(t Table, subjects SubjectSet, format Format) (*Artifact, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if !format.MultiSheet() {
		return nil, &Error{
			Kind:    KindUnsupportedFormat,
			Message: fmt.Sprintf("%s cannot hold one sheet per subject", format),
		}
	}
	if len(t) == 0 || len(subjects) == 0 {
		return nil, &Error{
			Kind:    KindEmptyExport,
			Message: "no records to export",
		}
	}

	sheets := make([]ExportSheet, 0, len(subjects))
	for _, subject := range subjects {
		sheets = append(sheets, BuildSheet(SelectSubject(t, subject), SheetName(subject)))
	}

	return &Artifact{
		FileName: fmt.Sprintf("All_Attendance_Lists_%s.%s", b.date(), format),
		Format:   format,
		Sheets:   sheets,
	}, nil
}

// SheetName truncates subject to the sheet name limit and strips every
// character outside letters, digits and space.
func SheetName(subject string) string {
	if utf8.RuneCountInString(subject) > MaxSheetNameLength {
		subject = string([]rune(subject)[:MaxSheetNameLength])
	}
	return strings.Map(func(r rune) rune {
		if isASCIIAlnum(r) || r == ' ' {
			return r
		}
		return -1
	}, subject)
}

// FileLabel replaces every character outside letters and digits with '_'.
func FileLabel(label string) string {
	return strings.Map(func(r rune) rune {
		if isASCIIAlnum(r) {
			return r
		}
		return '_'
	}, label)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
