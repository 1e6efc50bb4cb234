// Package metrics exposes Prometheus collectors for ingestion, aggregate
// caching and HTTP traffic. Collectors are registered on the default
// registry at init and are safe for concurrent use.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Batch outcomes.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

var (
	// IngestBatches counts bulk-upsert batches by assessment type and outcome.
	IngestBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillsmatrix_ingest_batches_total",
			Help: "Bulk upsert batches by assessment type and outcome.",
		},
		[]string{"assessment_type", "outcome"},
	)

	IngestRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillsmatrix_ingest_records_updated_total",
			Help: "Records modified or inserted by bulk upserts.",
		},
		[]string{"assessment_type"},
	)

	IngestBatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skillsmatrix_ingest_batch_duration_seconds",
			Help:    "Duration of one bulk upsert batch.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"assessment_type"},
	)

	// CacheLookups counts aggregate cache reads by result (hit|miss|error).
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skillsmatrix_cache_lookups_total",
			Help: "Aggregate cache lookups by result.",
		},
		[]string{"aggregate", "result"},
	)

	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		IngestBatches,
		IngestRecords,
		IngestBatchDuration,
		CacheLookups,
		httpReqs,
		httpLat,
		httpInflight,
	)
}

// ObserveBatch records one finished batch.
func ObserveBatch(assessmentType, outcome string, updated int64, took time.Duration) {
	IngestBatches.WithLabelValues(assessmentType, outcome).Inc()
	if updated > 0 {
		IngestRecords.WithLabelValues(assessmentType).Add(float64(updated))
	}
	IngestBatchDuration.WithLabelValues(assessmentType).Observe(took.Seconds())
}

// ObserveRequest records one finished HTTP request. path should be the
// registered route pattern, not the raw URL.
func ObserveRequest(method, path string, status int, took time.Duration) {
	httpReqs.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpLat.WithLabelValues(method, path).Observe(took.Seconds())
}

func IncInflight() { httpInflight.Inc() }
func DecInflight() { httpInflight.Dec() }

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
