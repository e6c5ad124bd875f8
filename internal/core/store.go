package core

import (
	"sync"

	"github.com/JonMunkholm/attendance/internal/schema"
)

// Store holds the loaded enrollment table and its derived subjects.
// A load swaps both under one lock, so readers never see a table paired
// with another table's subjects.
type Store struct {
	mu       sync.RWMutex
	table    Table
	subjects SubjectSet
	summary  *UploadSummary
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		table:    Table{},
		subjects: SubjectSet{},
	}
}

// Load replaces the table wholesale and recomputes the subjects. Rows must
// already have passed validation.
func (s *Store) Load(rows Table) {
	s.load(rows, nil)
}

// LoadUpload is Load plus the metadata of the upload that produced rows.
// The record and subject counts of summary are filled in from rows.
func (s *Store) LoadUpload(rows Table, summary UploadSummary) UploadSummary {
	return *s.load(rows, &summary)
}

func (s *Store) load(rows Table, summary *UploadSummary) *UploadSummary {
	if rows == nil {
		rows = Table{}
	}
	subjects := DeriveSubjects(rows)
	if summary != nil {
		summary.Records = len(rows)
		summary.Subjects = len(subjects)
	}

	s.mu.Lock()
	s.table = rows
	s.subjects = subjects
	s.summary = summary
	s.mu.Unlock()
	return summary
}

// All returns the live table. Callers must not modify it.
func (s *Store) All() Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// Subjects returns the live subject set. Callers must not modify it.
func (s *Store) Subjects() SubjectSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subjects
}

// Summary returns the metadata of the current upload, if any.
func (s *Store) Summary() (UploadSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return UploadSummary{}, false
	}
	return *s.summary, true
}

// Loaded reports whether an upload has populated the store.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary != nil
}

// DeriveSubjects returns the distinct non-empty unit_desc values of t in
// order of first occurrence.
func DeriveSubjects(t Table) SubjectSet {
	seen := make(map[string]bool)
	subjects := SubjectSet{}
	for _, rec := range t {
		s := rec[schema.UnitDesc]
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		subjects = append(subjects, s)
	}
	return subjects
}
