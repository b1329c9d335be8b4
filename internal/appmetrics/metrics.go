// Package appmetrics exposes the screening engine's Prometheus
// collectors: HTTP request counters/histograms, search latency and
// candidate-pool-size histograms, bulk job throughput/queue-depth
// gauges, and the parse/scoring error counters tied to spec.md §7's
// recovered error kinds.
package appmetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds every collector this package registers.
	Registry = prometheus.NewRegistry()

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "screening_engine",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled, by method/path/status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "screening_engine",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path"},
	)

	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "screening_engine",
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of one Search call.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	searchCandidatePoolSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "screening_engine",
			Subsystem: "search",
			Name:      "candidate_pool_size",
			Help:      "Number of candidates considered after source/type filtering.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		},
	)

	searchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "screening_engine",
			Subsystem: "search",
			Name:      "results_returned",
			Help:      "Number of results returned after threshold filtering and truncation.",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		},
	)

	bulkJobsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "screening_engine",
			Subsystem: "bulk_job",
			Name:      "active",
			Help:      "Number of bulk jobs currently in SUBMITTED or RUNNING state.",
		},
	)

	bulkJobItemsProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "screening_engine",
			Subsystem: "bulk_job",
			Name:      "items_processed_total",
			Help:      "Total input items processed across all bulk jobs.",
		},
	)

	bulkJobDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "screening_engine",
			Subsystem: "bulk_job",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of a completed or failed bulk job.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 16),
		},
	)

	parseErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "screening_engine",
			Subsystem: "bulk_job",
			Name:      "parse_errors_total",
			Help:      "Total malformed NDJSON lines skipped.",
		},
	)

	scoringErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "screening_engine",
			Subsystem: "bulk_job",
			Name:      "scoring_errors_total",
			Help:      "Total items whose scoring panicked and were recorded as zero matches.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		searchDuration,
		searchCandidatePoolSize,
		searchResultsReturned,
		bulkJobsActive,
		bulkJobItemsProcessedTotal,
		bulkJobDuration,
		parseErrorsTotal,
		scoringErrorsTotal,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// InstrumentHandler wraps next, recording per-request counters and
// duration histograms.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		duration := time.Since(start)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration.Seconds())
	})
}

// RecordSearch records one Search call's latency and pool shape.
func RecordSearch(duration time.Duration, candidatePoolSize, resultsReturned int) {
	searchDuration.Observe(duration.Seconds())
	searchCandidatePoolSize.Observe(float64(candidatePoolSize))
	searchResultsReturned.Observe(float64(resultsReturned))
}

// BulkJobStarted increments the active-job gauge.
func BulkJobStarted() {
	bulkJobsActive.Inc()
}

// BulkJobFinished decrements the active-job gauge and records the
// job's total wall-clock duration.
func BulkJobFinished(duration time.Duration) {
	bulkJobsActive.Dec()
	bulkJobDuration.Observe(duration.Seconds())
}

// RecordItemsProcessed adds n to the cumulative processed-items counter.
func RecordItemsProcessed(n int) {
	bulkJobItemsProcessedTotal.Add(float64(n))
}

// RecordParseError increments the malformed-NDJSON-line counter.
func RecordParseError() {
	parseErrorsTotal.Inc()
}

// RecordScoringError increments the recovered-scoring-panic counter.
func RecordScoringError() {
	scoringErrorsTotal.Inc()
}
