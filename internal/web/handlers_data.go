package web

import (
	"net/http"

	"github.com/JonMunkholm/attendance/internal/core"
	"github.com/JonMunkholm/attendance/internal/schema"
)

// RecordsResponse lists records of the loaded table.
type RecordsResponse struct {
	Subject string     `json:"subject,omitempty"`
	Query   string     `json:"query,omitempty"`
	Count   int        `json:"count"`
	Records core.Table `json:"records"`
}

// ColumnInfo describes one recognized upload column.
type ColumnInfo struct {
	Key         string `json:"key"`
	Header      string `json:"header"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// handleHealth reports liveness and whether a file is loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, loaded := s.service.Summary()
	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok", "loaded": loaded})
}

// handleSummary returns the summary of the current upload.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, ok := s.service.Summary()
	if !ok {
		s.respondServiceError(w, r, core.ErrNoData)
		return
	}
	writeJSON(w, r, http.StatusOK, UploadResponse{UploadSummary: summary, Message: summary.Message()})
}

// handleSubjects lists the distinct subjects of the loaded table.
func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects := s.service.Subjects()
	if subjects == nil {
		subjects = core.SubjectSet{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"count":    len(subjects),
		"subjects": subjects,
	})
}

// handleRecords returns records for ?subject= narrowed by ?q=.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	c := criteriaFromQuery(r)
	writeRecords(w, r, c, s.service.Records(c))
}

// handleEnrollmentSearch searches the whole table by name or reference.
func (s *Server) handleEnrollmentSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeRecords(w, r, core.FilterCriteria{Query: q}, s.service.SearchEnrollment(q))
}

// handleColumns lists the columns an upload is expected to have.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	fields := s.service.Columns()
	out := make([]ColumnInfo, len(fields))
	for i, f := range fields {
		out[i] = columnInfo(f)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"columns": out})
}

func columnInfo(f schema.Field) ColumnInfo {
	return ColumnInfo{Key: f.Key, Header: f.Header, Required: f.Required, Description: f.Description}
}

// criteriaFromQuery reads ?subject= and ?q= exactly as sent. The subject is
// applied first, so a query only ever narrows the selected subject.
func criteriaFromQuery(r *http.Request) core.FilterCriteria {
	q := r.URL.Query()
	return core.FilterCriteria{}.WithSubject(q.Get("subject")).WithQuery(q.Get("q"))
}

func writeRecords(w http.ResponseWriter, r *http.Request, c core.FilterCriteria, t core.Table) {
	if t == nil {
		t = core.Table{}
	}
	writeJSON(w, r, http.StatusOK, RecordsResponse{
		Subject: c.Subject,
		Query:   c.Query,
		Count:   len(t),
		Records: t,
	})
}
