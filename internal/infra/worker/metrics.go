package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of a scheduled job.
type Metrics struct {
	RunsTotal            *prometheus.CounterVec
	DurationSeconds      prometheus.Histogram
	LastSuccessTimestamp prometheus.Gauge
}

var defaultMetrics = newMetrics(prometheus.DefaultRegisterer)

func newMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "csflix_job_runs_total",
			Help: "Total number of scheduled job runs by status (success/failure)",
		}, []string{"job", "status"}),
		DurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "csflix_job_duration_seconds",
			Help:    "Duration of scheduled job runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
		LastSuccessTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "csflix_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful scheduled job run",
		}),
	}
}

// RecordRun records one job run.
func (m *Metrics) RecordRun(job string, err error, seconds float64) {
	m.DurationSeconds.Observe(seconds)
	if err != nil {
		m.RunsTotal.WithLabelValues(job, "failure").Inc()
		return
	}
	m.RunsTotal.WithLabelValues(job, "success").Inc()
	m.LastSuccessTimestamp.SetToCurrentTime()
}
