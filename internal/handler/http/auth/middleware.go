package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"csflix/internal/handler/http/requestid"
)

type ctxKey string

const ctxUser ctxKey = "user"

// WithUsername returns a context carrying the signed-in username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxUser, username)
}

// UsernameFromContext returns the signed-in username, or "" for anonymous requests.
func UsernameFromContext(ctx context.Context) string {
	if u, ok := ctx.Value(ctxUser).(string); ok {
		return u
	}
	return ""
}

// Middleware resolves the session cookie and stores the username in the request context.
// Anonymous requests pass through unchanged; a bad cookie is cleared.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		username, err := m.Username(r)
		RecordSessionCheckDuration(time.Since(start).Seconds())

		switch {
		case err == nil:
			r = r.WithContext(WithUsername(r.Context(), username))
		case errors.Is(err, ErrNoSession):
		default:
			RecordSessionRejected("invalid")
			slog.Debug("session rejected",
				slog.String("request_id", requestid.FromContext(r.Context())),
				slog.String("error", err.Error()))
			m.Clear(w)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLogin redirects anonymous requests to the login page.
// The original request URI is carried in the next parameter.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UsernameFromContext(r.Context()) == "" {
			RecordSessionRejected("anonymous")
			target := r.URL.RequestURI()
			if r.Method != http.MethodGet {
				target = r.URL.Path
			}
			http.Redirect(w, r, LoginURL(target), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
