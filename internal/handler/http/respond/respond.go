// Package respond writes HTML error responses without leaking internal details.
package respond

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
)

const genericMessage = "Something went wrong on our side. Please try again later."

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Code}} {{.Status}}</title></head>
<body>
<main class="error">
<h1>{{.Code}} {{.Status}}</h1>
<p>{{.Message}}</p>
<p><a href="/">Back to the catalogue</a></p>
</main>
</body>
</html>
`))

// AppError is an error that carries a user-facing message and status code.
type AppError struct {
	UserMsg string // shown to the user
	Err     error  // logged
	Code    int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// NotFound writes a 404 page.
func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "The page you were looking for does not exist."
	}
	HTML(w, http.StatusNotFound, msg)
}

// HTML writes a minimal error page with msg, which is escaped.
func HTML(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	data := struct {
		Code    int
		Status  string
		Message string
	}{code, http.StatusText(code), msg}
	if err := errorPage.Execute(w, data); err != nil {
		slog.Default().Error("failed to render error page",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// SafeError writes an error page for err. AppErrors show their UserMsg with
// their own code. Anything else with code >= 500 is logged (sanitized) and
// replaced by a generic message; lower codes show the status text.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Error("application error",
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		HTML(w, appErr.Code, appErr.UserMsg)
		return
	}

	if code >= 500 {
		slog.Default().Error("internal server error",
			slog.Int("code", code),
			slog.String("error", SanitizeError(err)))
		HTML(w, code, genericMessage)
		return
	}
	HTML(w, code, http.StatusText(code))
}
