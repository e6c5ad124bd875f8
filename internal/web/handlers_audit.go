package web

import (
	"net/http"

	"github.com/JonMunkholm/attendance/internal/audit"
)

const auditPageSize = audit.DefaultListLimit

// handleAuditLog lists audit entries, newest first, filtered by ?action=
// and ?severity= and paged by ?page=.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r, "page", 1)
	opts := audit.ListOptions{
		Action:   audit.Action(r.URL.Query().Get("action")),
		Severity: audit.Severity(r.URL.Query().Get("severity")),
		Limit:    auditPageSize,
		Offset:   (page - 1) * auditPageSize,
	}

	entries, err := s.service.AuditLog(r.Context(), opts)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"page":     page,
		"pageSize": auditPageSize,
		"entries":  entries,
	})
}
