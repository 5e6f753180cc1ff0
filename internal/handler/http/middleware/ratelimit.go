// Package middleware holds the HTTP middleware that is specific to csflix pages.
package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var rateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "csflix_rate_limit_rejections_total",
	Help: "Total number of requests rejected by a rate limiter",
}, []string{"limiter"})

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter holds one token bucket per key (a username or a client IP).
// It is safe for concurrent use.
type KeyedLimiter struct {
	name  string
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

// NewKeyedLimiter allows perMinute events per key with the given burst.
// Buckets untouched for longer than idle are dropped by Cleanup.
func NewKeyedLimiter(name string, perMinute float64, burst int, idle time.Duration) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		name:    name,
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
		idle:    idle,
		now:     time.Now,
		entries: make(map[string]*limiterEntry),
	}
}

// Allow consumes one token for key and reports whether it was available.
func (l *KeyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	now := l.now()
	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if !allowed {
		rateLimitRejections.WithLabelValues(l.name).Inc()
	}
	return allowed
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Cleanup drops buckets idle for longer than the configured idle duration.
func (l *KeyedLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	removed := 0
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Middleware limits requests per client IP using extractor.
// Only methods in methods are limited; an empty list limits every request.
func (l *KeyedLimiter) Middleware(extractor IPExtractor, methods ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !methodMatches(r.Method, methods) {
				next.ServeHTTP(w, r)
				return
			}
			ip, err := extractor.ExtractIP(r)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !l.Allow(ip) {
				slog.Warn("rate limit exceeded",
					slog.String("limiter", l.name),
					slog.String("ip", ip),
					slog.String("path", r.URL.Path))
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func methodMatches(method string, methods []string) bool {
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}
