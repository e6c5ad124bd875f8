package core

import (
	"fmt"
	"time"
)

// Record is one enrollment row keyed by canonical field name. Columns the
// schema does not know keep their original header as key.
type Record map[string]string

// Table is an ordered sequence of records in source row order.
type Table []Record

// SubjectSet is the distinct non-empty subject values of a table in order of
// first occurrence.
type SubjectSet []string

// UploadSummary describes the upload that populated the store.
type UploadSummary struct {
	ID       string    `json:"id"`
	FileName string    `json:"fileName"`
	Records  int       `json:"records"`
	Subjects int       `json:"subjects"`
	Columns  []string  `json:"columns"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Message returns the human readable outcome of the upload.
func (u UploadSummary) Message() string {
	return fmt.Sprintf("Loaded %d records with %d subjects", u.Records, u.Subjects)
}
