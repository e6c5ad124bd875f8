// Package metrics provides Prometheus metrics for uploads, exports and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	// Upload metrics
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_uploads_total",
			Help: "Total number of enrollment uploads by outcome",
		},
		[]string{"outcome", "reason"},
	)

	UploadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attendance_upload_duration_seconds",
			Help:    "Time taken to parse, validate and load an upload",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"extension"},
	)

	RecordsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attendance_records_loaded",
			Help: "Number of enrollment records currently loaded",
		},
	)

	SubjectsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "attendance_subjects_loaded",
			Help: "Number of distinct subjects currently loaded",
		},
	)

	// Export metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_exports_total",
			Help: "Total number of export requests",
		},
		[]string{"kind", "format", "outcome"},
	)

	ExportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_export_rows_total",
			Help: "Total number of attendance rows exported",
		},
		[]string{"kind", "format"},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attendance_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"scope"},
	)
)

// RecordUpload records the outcome of an upload. reason is an error code,
// empty on success.
func RecordUpload(outcome, reason, extension string, duration time.Duration) {
	UploadsTotal.WithLabelValues(outcome, reason).Inc()
	UploadDuration.WithLabelValues(extension).Observe(duration.Seconds())
}

// SetLoaded records the size of the loaded table.
func SetLoaded(records, subjects int) {
	RecordsLoaded.Set(float64(records))
	SubjectsLoaded.Set(float64(subjects))
}

// RecordExport records an export request and, on success, its row count.
func RecordExport(kind, format, outcome string, rows int) {
	ExportsTotal.WithLabelValues(kind, format, outcome).Inc()
	if outcome == OutcomeSuccess {
		ExportRows.WithLabelValues(kind, format).Add(float64(rows))
	}
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimit records a request rejected by the limiter for scope.
func RecordRateLimit(scope string) {
	RateLimitHits.WithLabelValues(scope).Inc()
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
