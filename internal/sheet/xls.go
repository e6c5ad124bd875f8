package sheet

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
)

// maxXLSCols is the BIFF8 column limit.
const maxXLSCols = 256

// readXLS decodes a legacy BIFF workbook. The decoder panics on some
// malformed inputs, so panics are turned into errors.
func readXLS(data []byte) (d *Data, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("open xls: malformed workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("open xls: workbook has no sheets")
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, errors.New("open xls: first sheet unreadable")
	}

	grid := make([][]Value, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := rowAt(ws, i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		last := row.LastCol()
		if last <= 0 {
			// Cells written without a ROW record leave the bounds unset.
			last = maxXLSCols
		}
		cells := make([]Value, last)
		for c := row.FirstCol(); c < last; c++ {
			// Cells arrive as display strings, so numbers keep their text form.
			cells[c] = Text(row.Col(c))
		}
		grid = append(grid, cells)
	}

	return newData(ws.Name, grid), nil
}

// rowAt returns nil for rows absent from the sheet; the decoder
// dereferences a missing row instead of reporting it.
func rowAt(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}
