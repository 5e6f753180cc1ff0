package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts listing requests.
	// Labels: status (ok, not_found, transient_failure), filtered (true, false)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csflix_listing_requests_total",
			Help: "Total number of article listing requests",
		},
		[]string{"status", "filtered"},
	)

	// FallbacksTotal counts reset-and-retry fallbacks taken by the listing handler.
	// Labels: outcome (rendered, redirected)
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csflix_listing_fallbacks_total",
			Help: "Total number of listing fallbacks after an out-of-range page",
		},
		[]string{"outcome"},
	)

	// TransientFailuresTotal counts listing attempts that failed for a reason other than an out-of-range page.
	// Labels: stage (initial, retry)
	TransientFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csflix_listing_transient_failures_total",
			Help: "Total number of listing attempts that could not load the page",
		},
		[]string{"stage"},
	)

	// DurationSeconds tracks listing duration distribution.
	// Labels: operation (handler, service, repository)
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "csflix_listing_duration_seconds",
			Help:    "Listing duration distribution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"operation"},
	)

	// IndexRebuildsTotal counts pagination index rebuilds.
	// Labels: result (success, error)
	IndexRebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csflix_index_rebuilds_total",
			Help: "Total number of pagination index rebuilds",
		},
		[]string{"result"},
	)

	// IndexSize is the number of article IDs in the shared index.
	IndexSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "csflix_index_size",
			Help: "Number of articles in the shared pagination index",
		},
	)
)

// RecordRequest records a listing request metric.
func RecordRequest(status string, filtered bool) {
	f := "false"
	if filtered {
		f = "true"
	}
	RequestsTotal.WithLabelValues(status, f).Inc()
}

// RecordFallback records the outcome of a reset-and-retry.
// outcome should be one of: "rendered", "redirected"
func RecordFallback(outcome string) {
	FallbacksTotal.WithLabelValues(outcome).Inc()
}

// RecordTransientFailure records a listing attempt that could not load its page.
// stage should be one of: "initial", "retry"
func RecordTransientFailure(stage string) {
	TransientFailuresTotal.WithLabelValues(stage).Inc()
}

// RecordDuration records operation duration in seconds.
func RecordDuration(operation string, duration float64) {
	DurationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordRebuild records an index rebuild.
func RecordRebuild(err error) {
	if err != nil {
		IndexRebuildsTotal.WithLabelValues("error").Inc()
		return
	}
	IndexRebuildsTotal.WithLabelValues("success").Inc()
}
