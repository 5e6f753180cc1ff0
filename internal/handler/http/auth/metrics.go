package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// authDuration tracks login and registration duration, bcrypt included.
	authDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "csflix_auth_duration_seconds",
			Help:    "Login and registration duration by action",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"action"}, // action: login | register
	)

	// sessionCheckDuration tracks session cookie verification.
	sessionCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "csflix_session_check_duration_seconds",
			Help:    "Session cookie verification duration",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005},
		},
	)

	// sessionRejections counts rejected or missing sessions on protected routes.
	sessionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csflix_session_rejections_total",
			Help: "Session rejections by reason",
		},
		[]string{"reason"}, // reason: invalid | anonymous
	)
)

// RecordAuthDuration records login or registration duration.
func RecordAuthDuration(action string, durationSeconds float64) {
	authDuration.WithLabelValues(action).Observe(durationSeconds)
}

// RecordSessionCheckDuration records session verification duration.
func RecordSessionCheckDuration(durationSeconds float64) {
	sessionCheckDuration.Observe(durationSeconds)
}

// RecordSessionRejected records a rejected session.
func RecordSessionRejected(reason string) {
	sessionRejections.WithLabelValues(reason).Inc()
}
