// Package metrics holds the csflix business counters that do not belong to a single layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Comment outcomes.
const (
	CommentStored      = "stored"
	CommentInvalid     = "invalid"
	CommentRateLimited = "rate_limited"
	CommentError       = "error"
)

var (
	// CommentsTotal counts comment submissions by outcome.
	CommentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csflix_comments_total",
		Help: "Total number of comment submissions by outcome",
	}, []string{"outcome"})

	// AuthAttemptsTotal counts login and registration attempts.
	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csflix_auth_attempts_total",
		Help: "Total number of login and registration attempts by result",
	}, []string{"action", "result"})

	// ArticlesImportedTotal counts catalogue rows processed by the importer.
	ArticlesImportedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csflix_articles_imported_total",
		Help: "Total number of catalogue rows processed by the importer by result",
	}, []string{"result"})

	// ArticlesTotal is the catalogue size seen by the last index rebuild.
	ArticlesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "csflix_articles_total",
		Help: "Total number of articles in the catalogue",
	})
)

// RecordComment records one comment submission outcome.
func RecordComment(outcome string) {
	CommentsTotal.WithLabelValues(outcome).Inc()
}

// RecordAuth records a login or registration attempt.
func RecordAuth(action string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}

// RecordImport records the outcome of one imported row.
func RecordImport(imported bool) {
	result := "imported"
	if !imported {
		result = "skipped"
	}
	ArticlesImportedTotal.WithLabelValues(result).Inc()
}

// UpdateArticlesTotal sets the catalogue size gauge.
func UpdateArticlesTotal(count int) {
	ArticlesTotal.Set(float64(count))
}
