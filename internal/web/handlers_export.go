package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/attendance/internal/core"
)

// handleExport downloads the attendance list for ?subject= and ?q=.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.ExportSubject(r.Context(), criteriaFromQuery(r), r.URL.Query().Get("format"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeDownload(w, d)
}

// handleExportAll downloads one sheet per subject.
func (s *Server) handleExportAll(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.ExportAll(r.Context(), r.URL.Query().Get("format"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	writeDownload(w, d)
}

func writeDownload(w http.ResponseWriter, d *core.Download) {
	h := w.Header()
	h.Set("Content-Type", d.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, d.FileName))
	h.Set("Content-Length", strconv.Itoa(len(d.Data)))
	h.Set("X-Export-Sheets", strconv.Itoa(d.Sheets))
	h.Set("X-Export-Rows", strconv.Itoa(d.Rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.Data)
}
