package sheet

import "strconv"

// emptyHeader names columns whose header cell is blank.
const emptyHeader = "__EMPTY"

// Data is the parsed content of one worksheet. The first non-blank row
// supplies Headers; every entry of Rows has exactly len(Headers) cells.
type Data struct {
	SheetName string
	Headers   []string
	Rows      [][]Value
}

// Len returns the number of data rows.
func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// newData builds Data from raw grid rows. Blank rows are dropped, the first
// remaining row becomes the header row, blank header cells are named
// __EMPTY, __EMPTY_1, ... and repeated headers get _1, _2 suffixes.
func newData(sheetName string, grid [][]Value) *Data {
	var rows [][]Value
	width := 0
	for _, r := range grid {
		r = trimTrailing(r)
		if len(r) == 0 {
			continue
		}
		if len(r) > width {
			width = len(r)
		}
		rows = append(rows, r)
	}

	d := &Data{SheetName: sheetName}
	if len(rows) == 0 {
		return d
	}

	d.Headers = uniqueHeaders(rows[0], width)
	d.Rows = make([][]Value, 0, len(rows)-1)
	for _, r := range rows[1:] {
		padded := make([]Value, width)
		copy(padded, r)
		d.Rows = append(d.Rows, padded)
	}
	return d
}

func uniqueHeaders(row []Value, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]int, width)

	for i := 0; i < width; i++ {
		name := emptyHeader
		if i < len(row) && !row[i].IsEmpty() {
			name = row[i].String()
		}

		candidate := name
		if n, ok := seen[name]; ok {
			for {
				candidate = name + "_" + strconv.Itoa(n)
				n++
				if _, taken := seen[candidate]; !taken {
					break
				}
			}
			seen[name] = n
		} else {
			seen[name] = 1
		}
		seen[candidate] = 1
		headers[i] = candidate
	}
	return headers
}

func trimTrailing(r []Value) []Value {
	n := len(r)
	for n > 0 && r[n-1].IsEmpty() {
		n--
	}
	return r[:n]
}
