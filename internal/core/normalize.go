package core

import (
	"strconv"

	"github.com/JonMunkholm/attendance/internal/schema"
	"github.com/JonMunkholm/attendance/internal/sheet"
)

// HeaderMap relabels the columns of one upload to record keys. It is built
// once from the header row and applied to every data row.
//
// Known headers map to their canonical key and unknown headers pass through
// unchanged. Canonical keys are claimed before any raw header, so a column
// whose raw name happens to equal a canonical key never displaces the
// recognized column. When two columns resolve to the same key the first
// keeps it and later ones fall back to their raw header, suffixed _1, _2
// if that is taken too.
type HeaderMap struct {
	keys []string
}

// NewHeaderMap builds the key for each column of headers.
func NewHeaderMap(headers []string) HeaderMap {
	keys := make([]string, len(headers))
	assigned := make([]bool, len(headers))
	used := make(map[string]bool, len(headers))

	for i, h := range headers {
		f, ok := schema.Lookup(h)
		if !ok || used[f.Key] {
			continue
		}
		keys[i], assigned[i] = f.Key, true
		used[f.Key] = true
	}

	for i, h := range headers {
		if assigned[i] {
			continue
		}
		key := uniqueKey(h, used)
		used[key] = true
		keys[i] = key
	}
	return HeaderMap{keys: keys}
}

// Keys returns the record key of every column in header order.
func (m HeaderMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Apply converts one row of cells into a Record. Every column produces a key,
// so required fields exist even when the cell is blank.
func (m HeaderMap) Apply(row []sheet.Value) Record {
	rec := make(Record, len(m.keys))
	for i, key := range m.keys {
		var v sheet.Value
		if i < len(row) {
			v = row[i]
		}
		rec[key] = v.String()
	}
	return rec
}

// ApplyAll converts every row of data.
func (m HeaderMap) ApplyAll(rows [][]sheet.Value) Table {
	t := make(Table, len(rows))
	for i, row := range rows {
		t[i] = m.Apply(row)
	}
	return t
}

func uniqueKey(raw string, used map[string]bool) string {
	if !used[raw] {
		return raw
	}
	for n := 1; ; n++ {
		candidate := raw + "_" + strconv.Itoa(n)
		if !used[candidate] {
			return candidate
		}
	}
}
