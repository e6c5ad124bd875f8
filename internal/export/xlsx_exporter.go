package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/attendance/internal/core"
)

const defaultSheet = "Sheet1"

// XLSXExporter renders datasets as worksheets of one workbook.
type XLSXExporter struct {
	// ColumnWidth is applied to every column; zero keeps the default width.
	ColumnWidth float64
}

// NewXLSXExporter builds an xlsx exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{ColumnWidth: 18}
}

// Render writes one worksheet per dataset, in order. Sheet names must be
// non-empty and unique ignoring case, as spreadsheet applications require.
func (e *XLSXExporter) Render(data []Dataset) ([]byte, error) {
	if err := checkSheetNames(data); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, ds := range data {
		if err := e.writeSheet(f, i, ds, bold); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *XLSXExporter) writeSheet(f *excelize.File, index int, ds Dataset, headerStyle int) error {
	if index == 0 {
		if ds.Name != defaultSheet {
			if err := f.SetSheetName(defaultSheet, ds.Name); err != nil {
				return sheetNameError(ds.Name, err)
			}
		}
	} else if _, err := f.NewSheet(ds.Name); err != nil {
		return sheetNameError(ds.Name, err)
	}

	header := make([]any, len(ds.Headers))
	for i, h := range ds.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(ds.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %q: %w", ds.Name, err)
	}

	for r, row := range ds.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(ds.Name, cell, &values); err != nil {
			return fmt.Errorf("write row %d of %q: %w", r+2, ds.Name, err)
		}
	}

	if len(ds.Headers) == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(len(ds.Headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ds.Name, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header of %q: %w", ds.Name, err)
	}
	if e.ColumnWidth > 0 {
		if err := f.SetColWidth(ds.Name, "A", lastCol, e.ColumnWidth); err != nil {
			return fmt.Errorf("size columns of %q: %w", ds.Name, err)
		}
	}
	return nil
}

func checkSheetNames(data []Dataset) error {
	seen := make(map[string]bool, len(data))
	for _, ds := range data {
		if strings.TrimSpace(ds.Name) == "" {
			return &core.Error{
				Kind:    core.KindInvalidSheetName,
				Message: "sheet name is empty",
			}
		}
		key := strings.ToLower(ds.Name)
		if seen[key] {
			return &core.Error{
				Kind:    core.KindInvalidSheetName,
				Message: fmt.Sprintf("duplicate sheet name %q", ds.Name),
			}
		}
		seen[key] = true
	}
	return nil
}

func sheetNameError(name string, err error) error {
	return &core.Error{
		Kind:    core.KindInvalidSheetName,
		Message: fmt.Sprintf("invalid sheet name %q", name),
		Err:     err,
	}
}
