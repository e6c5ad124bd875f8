// Package audit records upload and export activity.
//
// Entries hold metadata only (file names, counts, codes). Enrollment records
// themselves are never written to an audit sink.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Action represents the type of action being audited.
type Action string

const (
	ActionUpload         Action = "upload"
	ActionUploadRejected Action = "upload_rejected"
	ActionExport         Action = "export"
)

// Severity represents the severity level of an audit entry.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityFor returns the severity of an action. A successful upload
// replaces the loaded table, so it ranks highest.
func SeverityFor(action Action) Severity {
	switch action {
	case ActionUpload:
		return SeverityHigh
	case ActionUploadRejected:
		return SeverityMedium
	case ActionExport:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// Entry represents a single audit log entry.
type Entry struct {
	ID           string    `json:"id"`
	Action       Action    `json:"action"`
	Severity     Severity  `json:"severity"`
	UploadID     string    `json:"uploadId,omitempty"`
	FileName     string    `json:"fileName,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Format       string    `json:"format,omitempty"`
	RowsAffected int       `json:"rowsAffected,omitempty"`
	Code         string    `json:"code,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	IPAddress    string    `json:"ipAddress,omitempty"`
	UserAgent    string    `json:"userAgent,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Params contains parameters for creating an audit log entry.
type Params struct {
	Action       Action
	UploadID     string
	FileName     string
	Subject      string
	Format       string
	RowsAffected int
	Code         string
	Reason       string
}

// ListOptions filters a listing. Zero values match everything.
type ListOptions struct {
	Action   Action
	Severity Severity
	Limit    int
	Offset   int
}

// DefaultListLimit is used when ListOptions.Limit is not positive.
const DefaultListLimit = 50

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

func (o ListOptions) matches(e Entry) bool {
	if o.Action != "" && e.Action != o.Action {
		return false
	}
	if o.Severity != "" && e.Severity != o.Severity {
		return false
	}
	return true
}

// Sink stores audit entries.
type Sink interface {
	Write(ctx context.Context, e Entry) error
}

// Lister is a Sink that can read entries back, newest first.
type Lister interface {
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}

// Recorder builds entries and fans them out to its sinks.
type Recorder struct {
	sinks []Sink
	now   func() time.Time
}

// NewRecorder returns a recorder writing to sinks in order.
func NewRecorder(sinks ...Sink) *Recorder {
	return &Recorder{sinks: sinks, now: time.Now}
}

// Record writes an entry to every sink. Request metadata attached with
// WithRequestInfo is copied into the entry. The entry is returned even when
// a sink fails; the error joins every sink failure.
func (r *Recorder) Record(ctx context.Context, p Params) (Entry, error) {
	e := Entry{
		ID:           uuid.NewString(),
		Action:       p.Action,
		Severity:     SeverityFor(p.Action),
		UploadID:     p.UploadID,
		FileName:     p.FileName,
		Subject:      p.Subject,
		Format:       p.Format,
		RowsAffected: p.RowsAffected,
		Code:         p.Code,
		Reason:       p.Reason,
		IPAddress:    IPAddress(ctx),
		UserAgent:    UserAgent(ctx),
		CreatedAt:    r.now().UTC(),
	}

	var errs []error
	for _, s := range r.sinks {
		if err := s.Write(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return e, errors.Join(errs...)
}

// List reads from the first sink that supports listing.
func (r *Recorder) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	for _, s := range r.sinks {
		if l, ok := s.(Lister); ok {
			return l.List(ctx, opts)
		}
	}
	return []Entry{}, nil
}
