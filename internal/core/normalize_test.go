package core

import (
	"testing"

	"github.com/JonMunkholm/attendance/internal/schema"
	"github.com/JonMunkholm/attendance/internal/sheet"
)

func TestNewHeaderMap(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    []string
	}{
		{
			name:    "known headers become canonical",
			headers: []string{"Unit Desc", " CLIENT EMAIL ", "client mobile"},
			want:    []string{schema.UnitDesc, schema.ClientEmail, schema.ClientMobile},
		},
		{
			name:    "unknown headers pass through",
			headers: []string{"Unit Desc", "Campus", "Start Date"},
			want:    []string{schema.UnitDesc, "Campus", "Start Date"},
		},
		{
			name:    "first duplicate keeps canonical key",
			headers: []string{"Client Email", "client email "},
			want:    []string{schema.ClientEmail, "client email "},
		},
		{
			name:    "known header claims canonical key ahead of raw lookalike",
			headers: []string{"client_email", "Client Email", "client_email"},
			want:    []string{"client_email_1", schema.ClientEmail, "client_email_2"},
		},
		{
			name:    "duplicate known header falls back to suffixed raw name",
			headers: []string{"Campus", "Campus", "Client Email"},
			want:    []string{"Campus", "Campus_1", schema.ClientEmail},
		},
		{
			name:    "empty header row",
			headers: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewHeaderMap(tt.headers).Keys()
			if !equalStrings(got, tt.want) {
				t.Errorf("Keys() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeaderMap_Apply(t *testing.T) {
	m := NewHeaderMap([]string{"Unit Desc", "Client RefExternal", "Campus", "Client Email"})

	rec := m.Apply([]sheet.Value{
		sheet.Text("Biology"),
		sheet.Number(12345),
		sheet.Text("North"),
	})

	want := Record{
		schema.UnitDesc:          "Biology",
		schema.ClientRefExternal: "12345",
		"Campus":                 "North",
		schema.ClientEmail:       "",
	}
	if len(rec) != len(want) {
		t.Fatalf("Apply() = %v, want %v", rec, want)
	}
	for k, v := range want {
		got, ok := rec[k]
		if !ok {
			t.Errorf("key %q missing", k)
			continue
		}
		if got != v {
			t.Errorf("rec[%q] = %q, want %q", k, got, v)
		}
	}
}

func TestHeaderMap_ApplyAllConvergesAcrossRows(t *testing.T) {
	m := NewHeaderMap(requiredHeaders)

	table := m.ApplyAll([][]sheet.Value{
		textRow("Math", "C1", "R1", "Ana", "Lee", "ana@x"),
		textRow("Science", "C2", "R2", "Ben", "Ong", "ben@x"),
	})

	if len(table) != 2 {
		t.Fatalf("len = %d, want 2", len(table))
	}
	for i, rec := range table {
		for _, f := range schema.Required() {
			if _, ok := rec[f.Key]; !ok {
				t.Errorf("row %d missing %q", i, f.Key)
			}
		}
	}
	if table[1][schema.UnitDesc] != "Science" {
		t.Errorf("row 1 unit_desc = %q, want Science", table[1][schema.UnitDesc])
	}
}

