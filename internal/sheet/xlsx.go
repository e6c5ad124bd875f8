package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

func readXLSX(data []byte) (*Data, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("open xlsx: workbook has no sheets")
	}
	name := sheets[0]

	// Raw values keep numbers unformatted, the way they are stored.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	grid := make([][]Value, len(rows))
	for r, row := range rows {
		cells := make([]Value, len(row))
		for c, text := range row {
			if text == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("read sheet %q: %w", name, err)
			}
			typ, err := f.GetCellType(name, axis)
			if err != nil {
				return nil, fmt.Errorf("read cell %s: %w", axis, err)
			}
			cells[c] = classify(text, typ)
		}
		grid[r] = cells
	}

	return newData(name, grid), nil
}

// classify converts a raw xlsx cell into a Value. Cells without an explicit
// type are numeric in the file format.
func classify(text string, typ excelize.CellType) Value {
	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return Number(f)
		}
	case excelize.CellTypeBool:
		switch text {
		case "1", "TRUE", "true":
			return Text("true")
		case "0", "FALSE", "false":
			return Text("false")
		}
	}
	return Text(text)
}
