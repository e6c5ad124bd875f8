package core

import (
	"testing"

	"github.com/JonMunkholm/attendance/internal/schema"
)

func filterTable() Table {
	t := Table{
		student("Math", "R1", "Ana", "Lee"),
		student("Science", "R2", "Ben", "Ong"),
		student("Math", "R3", "Cyrus", "Tan"),
		student("math", "R4", "Dee", "Anderson"),
		student("Math", "R5", "Eve", "Moss"),
	}
	t[4]["Campus"] = "North Annex"
	return t
}

func TestSelectSubject(t *testing.T) {
	table := filterTable()

	tests := []struct {
		subject string
		want    []string
	}{
		{"Math", []string{"R1", "R3", "R5"}},
		{"math", []string{"R4"}},
		{"Science", []string{"R2"}},
		{"History", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got := refs(SelectSubject(table, tt.subject))
			if !equalStrings(got, tt.want) {
				t.Errorf("SelectSubject(%q) = %q, want %q", tt.subject, got, tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	base := filterTable()

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty term returns base", "", []string{"R1", "R2", "R3", "R4", "R5"}},
		{"whitespace term returns base", "   ", []string{"R1", "R2", "R3", "R4", "R5"}},
		{"case-insensitive", "ANA", []string{"R1"}},
		{"matches last name", "on", []string{"R2", "R4"}},
		{"matches unknown columns", "annex", []string{"R5"}},
		{"matches subject field", "science", []string{"R2"}},
		{"matches email", "eve@", []string{"R5"}},
		{"no match", "zzz", []string{}},
		{"term is not trimmed", " lee", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refs(Search(base, tt.term))
			if !equalStrings(got, tt.want) {
				t.Errorf("Search(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}

// Search results are a subsequence of the base set.
func TestSearch_Subsequence(t *testing.T) {
	base := filterTable()

	for _, term := range []string{"a", "e", "r", "m", "@", "o"} {
		got := Search(base, term)
		i := 0
		for _, rec := range got {
			for i < len(base) && base[i][schema.ClientRefExternal] != rec[schema.ClientRefExternal] {
				i++
			}
			if i == len(base) {
				t.Fatalf("Search(%q) is not a subsequence of base: %q", term, refs(got))
			}
			i++
		}
	}
}

func TestSearch_DoesNotMutate(t *testing.T) {
	base := filterTable()
	before := refs(base)

	_ = Search(base, "ana")
	_ = SelectSubject(base, "Math")
	_ = SearchAll(base, "ana")

	if !equalStrings(refs(base), before) {
		t.Errorf("base changed: %q -> %q", before, refs(base))
	}
}

func TestSearchAll(t *testing.T) {
	table := filterTable()

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"blank term clears results", "  ", []string{}},
		{"empty term clears results", "", []string{}},
		{"first name", "cyr", []string{"R3"}},
		{"last name, across subjects", "on", []string{"R2", "R4"}},
		{"reference", "r5", []string{"R5"}},
		{"email is not searched", "example.com", []string{}},
		{"subject is not searched", "science", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refs(SearchAll(table, tt.term))
			if !equalStrings(got, tt.want) {
				t.Errorf("SearchAll(%q) = %q, want %q", tt.term, got, tt.want)
			}
		})
	}
}

func TestFilterCriteria(t *testing.T) {
	table := filterTable()

	c := FilterCriteria{}.WithSubject("Math").WithQuery("tan")
	if got := refs(c.Apply(table)); !equalStrings(got, []string{"R3"}) {
		t.Errorf("Apply() = %q, want [R3]", got)
	}

	c = c.WithSubject("Science")
	if c.Query != "" {
		t.Errorf("WithSubject should reset the query, got %q", c.Query)
	}
	if got := refs(c.Apply(table)); !equalStrings(got, []string{"R2"}) {
		t.Errorf("Apply() = %q, want [R2]", got)
	}

	all := FilterCriteria{Query: "on"}
	if got := refs(all.Apply(table)); !equalStrings(got, []string{"R2", "R4"}) {
		t.Errorf("Apply() without subject = %q, want [R2 R4]", got)
	}
}
