// Package sheettest builds in-memory xlsx workbooks for tests.
package sheettest

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet to write: a name and its rows of cell values.
type Sheet struct {
	Name string
	Rows [][]any
}

// XLSX returns the bytes of a workbook containing a single sheet.
func XLSX(t testing.TB, rows [][]any) []byte {
	t.Helper()
	return Workbook(t, Sheet{Name: "Sheet1", Rows: rows})
}

// Workbook returns the bytes of a workbook with the given sheets in order.
func Workbook(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if s.Name != "Sheet1" {
				if err := f.SetSheetName("Sheet1", s.Name); err != nil {
					t.Fatalf("rename sheet: %v", err)
				}
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("new sheet %q: %v", s.Name, err)
		}

		for r, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			values := row
			if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
				t.Fatalf("write row %d: %v", r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}
