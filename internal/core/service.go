package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/attendance/internal/audit"
	"github.com/JonMunkholm/attendance/internal/logging"
	"github.com/JonMunkholm/attendance/internal/metrics"
	"github.com/JonMunkholm/attendance/internal/schema"
	"github.com/JonMunkholm/attendance/internal/sheet"
)

// Export kinds used in metrics and audit entries.
const (
	ExportKindSubject = "subject"
	ExportKindAll     = "all"
)

// Parser reads the first worksheet of an uploaded file.
type Parser interface {
	Read(fileName string, data []byte) (*sheet.Data, error)
}

// Renderer encodes an artifact in its format.
type Renderer interface {
	Render(a *Artifact) ([]byte, error)
}

// AuditRecorder stores and lists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, p audit.Params) (audit.Entry, error)
	List(ctx context.Context, opts audit.ListOptions) ([]audit.Entry, error)
}

// Options configures a Service. Zero fields get defaults: the spreadsheet
// reader, an in-memory audit log, the system clock, xlsx and UTC.
type Options struct {
	Parser        Parser
	Renderer      Renderer
	Audit         AuditRecorder
	Now           func() time.Time
	DefaultFormat Format
	Location      *time.Location
}

// Service provides the core business logic for enrollment uploads and
// attendance exports.
type Service struct {
	store         *Store
	parser        Parser
	renderer      Renderer
	audit         AuditRecorder
	builder       *Builder
	now           func() time.Time
	defaultFormat Format
}

// Download is a rendered export ready to be sent to a client.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
	Sheets      int
	Rows        int
}

// NewService creates a new Service instance.
func NewService(opts Options) *Service {
	if opts.Parser == nil {
		opts.Parser = sheet.Reader{}
	}
	if opts.Audit == nil {
		opts.Audit = audit.NewRecorder(audit.NewMemorySink(audit.DefaultCapacity))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = FormatXLSX
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &Service{
		store:         NewStore(),
		parser:        opts.Parser,
		renderer:      opts.Renderer,
		audit:         opts.Audit,
		builder:       &Builder{Now: opts.Now, Location: opts.Location},
		now:           opts.Now,
		defaultFormat: opts.DefaultFormat,
	}
}

// Upload parses, validates and loads an enrollment file. On any failure the
// previously loaded table stays in place.
func (s *Service) Upload(ctx context.Context, fileName string, data []byte) (*UploadSummary, error) {
	start := time.Now()
	ext := sheet.Ext(fileName)
	log := logging.WithFields(ctx, "file", fileName, "bytes", len(data))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if ext == "" {
		err := &Error{
			Kind:    KindInvalidFileFormat,
			Message: fmt.Sprintf("unsupported file %q: expected .xlsx or .xls", fileName),
		}
		s.rejectUpload(ctx, fileName, ext, start, err)
		return nil, err
	}

	parsed, err := s.parser.Read(fileName, data)
	if err != nil {
		perr := &Error{
			Kind:    KindParseFailure,
			Message: fmt.Sprintf("read %s", fileName),
			Err:     err,
		}
		s.rejectUpload(ctx, fileName, ext, start, perr)
		return nil, perr
	}

	table := Table{}
	hm := NewHeaderMap(parsed.Headers)
	if parsed.Len() > 0 {
		if verr := ValidateColumns(parsed.Headers).Err(); verr != nil {
			s.rejectUpload(ctx, fileName, ext, start, verr)
			return nil, verr
		}
		table = hm.ApplyAll(parsed.Rows)
	}

	summary := s.store.LoadUpload(table, UploadSummary{
		ID:       uuid.NewString(),
		FileName: fileName,
		Columns:  hm.Keys(),
		LoadedAt: s.now().UTC(),
	})

	metrics.RecordUpload(metrics.OutcomeSuccess, "", ext, time.Since(start))
	metrics.SetLoaded(summary.Records, summary.Subjects)
	s.recordAudit(ctx, audit.Params{
		Action:       audit.ActionUpload,
		UploadID:     summary.ID,
		FileName:     fileName,
		RowsAffected: summary.Records,
	})

	log.Info("upload loaded",
		"upload_id", summary.ID,
		"sheet", parsed.SheetName,
		"records", summary.Records,
		"subjects", summary.Subjects,
		"duration", time.Since(start),
	)
	return &summary, nil
}

func (s *Service) rejectUpload(ctx context.Context, fileName, ext string, start time.Time, err error) {
	msg := MapError(err)

	metrics.RecordUpload(metrics.OutcomeRejected, msg.Code, ext, time.Since(start))
	s.recordAudit(ctx, audit.Params{
		Action:   audit.ActionUploadRejected,
		FileName: fileName,
		Code:     msg.Code,
		Reason:   err.Error(),
	})

	logging.WithFields(ctx, "file", fileName).Warn("upload rejected",
		"code", msg.Code,
		"error", err,
	)
}

// Subjects returns the subjects of the loaded table.
func (s *Service) Subjects() SubjectSet {
	return s.store.Subjects()
}

// Records returns the loaded records matching c.
func (s *Service) Records(c FilterCriteria) Table {
	return c.Apply(s.store.All())
}

// SearchEnrollment looks a student up across all subjects.
func (s *Service) SearchEnrollment(term string) Table {
	return SearchAll(s.store.All(), term)
}

// Summary returns the metadata of the loaded upload.
func (s *Service) Summary() (UploadSummary, bool) {
	return s.store.Summary()
}

// Columns lists the columns an enrollment file is expected to have.
func (s *Service) Columns() []schema.Field {
	return append([]schema.Field(nil), schema.EnrollmentFields...)
}

// AuditLog lists recent audit entries, newest first.
func (s *Service) AuditLog(ctx context.Context, opts audit.ListOptions) ([]audit.Entry, error) {
	return s.audit.List(ctx, opts)
}

// ExportSubject renders the records matching c as a single attendance sheet.
// format may be empty for the configured default.
func (s *Service) ExportSubject(ctx context.Context, c FilterCriteria, format string) (*Download, error) {
	f, err := s.exportFormat(format)
	if err != nil {
		s.finishExport(ctx, ExportKindSubject, formatUnknown, c.Subject, nil, err)
		return nil, err
	}
	if !s.store.Loaded() {
		err := &Error{Kind: KindNoData, Message: "no enrollment file loaded"}
		s.finishExport(ctx, ExportKindSubject, f, c.Subject, nil, err)
		return nil, err
	}

	label := c.Subject
	if label == "" {
		label = "All"
	}

	artifact, err := s.builder.BuildSingle(c.Apply(s.store.All()), label, f)
	return s.render(ctx, ExportKindSubject, f, c.Subject, artifact, err)
}

// ExportAll renders one attendance sheet per subject.
func (s *Service) ExportAll(ctx context.Context, format string) (*Download, error) {
	f, err := s.exportFormat(format)
	if err != nil {
		s.finishExport(ctx, ExportKindAll, formatUnknown, "", nil, err)
		return nil, err
	}
	if !s.store.Loaded() {
		err := &Error{Kind: KindNoData, Message: "no enrollment file loaded"}
		s.finishExport(ctx, ExportKindAll, f, "", nil, err)
		return nil, err
	}

	artifact, err := s.builder.BuildAll(s.store.All(), s.store.Subjects(), f)
	return s.render(ctx, ExportKindAll, f, "", artifact, err)
}

// formatUnknown labels exports whose requested format was rejected.
const formatUnknown Format = "unknown"

func (s *Service) exportFormat(name string) (Format, error) {
	if name == "" {
		return s.defaultFormat, nil
	}
	return ParseFormat(name)
}

func (s *Service) render(ctx context.Context, kind string, f Format, subject string, artifact *Artifact, err error) (*Download, error) {
	if err != nil {
		s.finishExport(ctx, kind, f, subject, nil, err)
		return nil, err
	}
	if s.renderer == nil {
		err := fmt.Errorf("render %s: no renderer configured", f)
		s.finishExport(ctx, kind, f, subject, artifact, err)
		return nil, err
	}

	data, err := s.renderer.Render(artifact)
	if err != nil {
		s.finishExport(ctx, kind, f, subject, artifact, err)
		return nil, err
	}

	s.finishExport(ctx, kind, f, subject, artifact, nil)
	return &Download{
		FileName:    artifact.FileName,
		ContentType: f.ContentType(),
		Data:        data,
		Sheets:      len(artifact.Sheets),
		Rows:        artifact.RowCount(),
	}, nil
}

func (s *Service) finishExport(ctx context.Context, kind string, f Format, subject string, artifact *Artifact, err error) {
	log := logging.WithFields(ctx, "kind", kind, "format", string(f))

	if err != nil {
		outcome := metrics.OutcomeRejected
		if KindOf(err) == "" {
			outcome = metrics.OutcomeFailed
		}
		metrics.RecordExport(kind, string(f), outcome, 0)
		log.Warn("export failed", "subject", subject, "code", MapError(err).Code, "error", err)
		return
	}

	rows := artifact.RowCount()
	metrics.RecordExport(kind, string(f), metrics.OutcomeSuccess, rows)
	s.recordAudit(ctx, audit.Params{
		Action:       audit.ActionExport,
		FileName:     artifact.FileName,
		Subject:      subject,
		Format:       string(f),
		RowsAffected: rows,
	})
	log.Info("export built",
		"file", artifact.FileName,
		"sheets", len(artifact.Sheets),
		"rows", rows,
	)
}

func (s *Service) recordAudit(ctx context.Context, p audit.Params) {
	if _, err := s.audit.Record(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("audit write failed", "action", p.Action, "error", err)
	}
}
