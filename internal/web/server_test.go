package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/attendance/internal/config"
	"github.com/JonMunkholm/attendance/internal/core"
	"github.com/JonMunkholm/attendance/internal/export"
	"github.com/JonMunkholm/attendance/internal/sheet/sheettest"
)

var enrollmentHeader = []any{
	"Unit Desc", "Course Offer Desc", "Client RefExternal",
	"Client First Name", "Client Last Name", "Client Email", "Client Mobile",
}

func enrollmentWorkbook(t *testing.T) []byte {
	t.Helper()
	return sheettest.XLSX(t, [][]any{
		enrollmentHeader,
		{"Biology", "Diploma 2026", "R1", "Ana", "Lopez", "ana@example.com", "0400 000 001"},
		{"Chemistry", "Diploma 2026", "R2", "Ben", "Ng", "ben@example.com", ""},
		{"Biology", "Diploma 2026", "R3", "Cy", "Park", "cy@example.com", ""},
	})
}

func newTestServer(t *testing.T, env map[string]string) *Server {
	t.Helper()
	cfg, err := config.LoadFrom(func(key string) string { return env[key] })
	require.NoError(t, err)

	svc := core.NewService(core.Options{
		Renderer: export.NewRenderer(),
		Now:      func() time.Time { return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC) },
	})
	s := NewServer(svc, cfg)
	t.Cleanup(func() { _ = s.Shutdown(t.Context()) })
	return s
}

func uploadRequest(t *testing.T, fileName string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	return serve(s, httptest.NewRequest(http.MethodGet, target, nil))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestUploadThenBrowse(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, uploadRequest(t, "enrol.xlsx", enrollmentWorkbook(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var up UploadResponse
	decode(t, rec, &up)
	assert.Equal(t, "enrol.xlsx", up.FileName)
	assert.Equal(t, 3, up.Records)
	assert.Equal(t, 2, up.Subjects)
	assert.Equal(t, "Loaded 3 records with 2 subjects", up.Message)
	assert.NotEmpty(t, up.ID)

	var subjects struct {
		Subjects []string `json:"subjects"`
	}
	decode(t, get(s, "/api/subjects"), &subjects)
	assert.Equal(t, []string{"Biology", "Chemistry"}, subjects.Subjects)

	var records RecordsResponse
	decode(t, get(s, "/api/records?subject=Biology"), &records)
	assert.Equal(t, 2, records.Count)

	decode(t, get(s, "/api/records?subject=Biology&q=park"), &records)
	require.Equal(t, 1, records.Count)
	assert.Equal(t, "R3", records.Records[0]["client_ref_external"])

	decode(t, get(s, "/api/enrollment/search?q=ben"), &records)
	require.Equal(t, 1, records.Count)
	assert.Equal(t, "Chemistry", records.Records[0]["unit_desc"])

	decode(t, get(s, "/api/enrollment/search?q=+"), &records)
	assert.Equal(t, 0, records.Count)

	var summary UploadResponse
	decode(t, get(s, "/api/summary"), &summary)
	assert.Equal(t, up.ID, summary.ID)
}

func TestExportSubject(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, serve(s, uploadRequest(t, "enrol.xlsx", enrollmentWorkbook(t))).Code)

	rec := get(s, "/api/export?subject=Biology")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, core.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Attendance_Biology_2026-03-09.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "2", rec.Header().Get("X-Export-Rows"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{core.SingleSheetName}, f.GetSheetList())
	rows, err := f.GetRows(core.SingleSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportAll(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, serve(s, uploadRequest(t, "enrol.xlsx", enrollmentWorkbook(t))).Code)

	rec := get(s, "/api/export/all")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2", rec.Header().Get("X-Export-Sheets"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Biology", "Chemistry"}, f.GetSheetList())

	rec = get(s, "/api/export/all?format=pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		status int
		code   string
	}{
		{
			name:   "export before upload",
			req:    func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/api/export", nil) },
			status: http.StatusConflict,
			code:   "DATA001",
		},
		{
			name:   "summary before upload",
			req:    func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/api/summary", nil) },
			status: http.StatusConflict,
			code:   "DATA001",
		},
		{
			name:   "unsupported export format",
			req:    func(*testing.T) *http.Request { return httptest.NewRequest(http.MethodGet, "/api/export?format=ods", nil) },
			status: http.StatusBadRequest,
			code:   "EXP002",
		},
		{
			name:   "wrong extension",
			req:    func(t *testing.T) *http.Request { return uploadRequest(t, "enrol.csv", []byte("a,b\n")) },
			status: http.StatusUnsupportedMediaType,
			code:   "FILE002",
		},
		{
			name: "missing columns",
			req: func(t *testing.T) *http.Request {
				data := sheettest.XLSX(t, [][]any{{"Unit Desc", "Client Email"}, {"Biology", "a@example.com"}})
				return uploadRequest(t, "enrol.xlsx", data)
			},
			status: http.StatusUnprocessableEntity,
			code:   "VAL004",
		},
		{
			name:   "corrupt workbook",
			req:    func(t *testing.T) *http.Request { return uploadRequest(t, "enrol.xlsx", []byte("not a zip")) },
			status: http.StatusUnprocessableEntity,
			code:   "FILE006",
		},
		{
			name: "no file",
			req: func(*testing.T) *http.Request {
				var body bytes.Buffer
				mw := multipart.NewWriter(&body)
				_ = mw.WriteField("other", "x")
				_ = mw.Close()
				req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
				req.Header.Set("Content-Type", mw.FormDataContentType())
				return req
			},
			status: http.StatusBadRequest,
			code:   "FILE004",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, map[string]string{"RATE_LIMIT_ENABLED": "false"})
			rec := serve(s, tt.req(t))
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp ErrorResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestMissingColumnsDetail(t *testing.T) {
	s := newTestServer(t, nil)
	data := sheettest.XLSX(t, [][]any{{"Unit Desc", "Client Email"}, {"Biology", "a@example.com"}})

	rec := serve(s, uploadRequest(t, "enrol.xlsx", data))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Detail struct {
			Missing []string `json:"missing"`
		} `json:"detail"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, []string{"course offer desc", "client refexternal", "client first name", "client last name"}, resp.Detail.Missing)
}

func TestUploadTooLarge(t *testing.T) {
	s := newTestServer(t, map[string]string{"UPLOAD_MAX_FILE_SIZE": "1024"})

	rec := serve(s, uploadRequest(t, "enrol.xlsx", bytes.Repeat([]byte("x"), 4096)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "FILE001", resp.Code)
}

func TestHTMXErrorFragment(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	req.Header.Set("HX-Request", "true")

	rec := serve(s, req)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "DATA001")
}

func TestHTMXUploadBadge(t *testing.T) {
	s := newTestServer(t, nil)
	req := uploadRequest(t, "enrol.xlsx", enrollmentWorkbook(t))
	req.Header.Set("HX-Request", "true")

	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loaded 3 records with 2 subjects")
	assert.Equal(t, "enrollment-loaded", rec.Header().Get("HX-Trigger"))
}

func TestAPIKeyProtectsAPI(t *testing.T) {
	s := newTestServer(t, map[string]string{"REQUIRE_API_KEY": "true", "API_KEYS": "secret"})

	assert.Equal(t, http.StatusUnauthorized, get(s, "/api/subjects").Code)
	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)

	req := httptest.NewRequest(http.MethodGet, "/api/subjects", nil)
	req.Header.Set("X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, serve(s, req).Code)
}

func TestUploadRateLimit(t *testing.T) {
	s := newTestServer(t, map[string]string{"RATE_LIMIT_UPLOAD": "1"})
	data := enrollmentWorkbook(t)

	require.Equal(t, http.StatusOK, serve(s, uploadRequest(t, "enrol.xlsx", data)).Code)

	rec := serve(s, uploadRequest(t, "enrol.xlsx", data))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var resp ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, "RATE001", resp.Code)

	assert.Equal(t, http.StatusOK, get(s, "/api/subjects").Code, "other routes use the global limit")
}

func TestPlainTextError(t *testing.T) {
	s := newTestServer(t, map[string]string{"RATE_LIMIT_REQUESTS_PER_MINUTE": "1"})

	require.Equal(t, http.StatusOK, get(s, "/healthz").Code)

	rec := get(s, "/healthz")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t,
		"Too many requests (Code: RATE001). Please wait a moment before trying again\n",
		rec.Body.String())
}

func TestColumnsAndAuditLog(t *testing.T) {
	s := newTestServer(t, nil)

	var cols struct {
		Columns []ColumnInfo `json:"columns"`
	}
	decode(t, get(s, "/api/columns"), &cols)
	require.NotEmpty(t, cols.Columns)
	assert.Equal(t, "unit_desc", cols.Columns[0].Key)
	assert.True(t, cols.Columns[0].Required)

	require.Equal(t, http.StatusOK, serve(s, uploadRequest(t, "enrol.xlsx", enrollmentWorkbook(t))).Code)
	require.Equal(t, http.StatusOK, get(s, "/api/export?subject=Chemistry&format=csv").Code)

	var log struct {
		Entries []struct {
			Action   string `json:"action"`
			FileName string `json:"fileName"`
		} `json:"entries"`
	}
	decode(t, get(s, "/api/audit-log"), &log)
	require.Len(t, log.Entries, 2)
	assert.Equal(t, "export", log.Entries[0].Action)
	assert.Equal(t, "upload", log.Entries[1].Action)

	decode(t, get(s, "/api/audit-log?action=upload"), &log)
	require.Len(t, log.Entries, 1)
	assert.Equal(t, "enrol.xlsx", log.Entries[0].FileName)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	assert.Equal(t, http.StatusOK, get(s, "/metrics").Code)
}
