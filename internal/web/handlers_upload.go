package web

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/JonMunkholm/attendance/internal/core"
	"github.com/JonMunkholm/attendance/internal/web/templates"
)

// multipartOverhead allows for form boundaries and part headers on top of
// the file itself.
const multipartOverhead = 1 << 20

var errNoFile = errors.New("no file provided")

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	core.UploadSummary
	Message string `json:"message"`
}

// handleUpload loads an enrollment spreadsheet sent as multipart field "file".
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.respondError(w, r, err, http.StatusRequestEntityTooLarge)
			return
		}
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		s.respondError(w, r, &http.MaxBytesError{Limit: maxSize}, http.StatusRequestEntityTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	summary, err := s.service.Upload(ctx, header.Filename, data)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("HX-Trigger", "enrollment-loaded")
		_ = templates.UploadBadge(summary.FileName, summary.Message()).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, http.StatusOK, UploadResponse{UploadSummary: *summary, Message: summary.Message()})
}
