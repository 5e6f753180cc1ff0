package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"csflix/internal/domain/entity"
	"csflix/internal/handler/http/respond"
	"csflix/internal/handler/http/view"
	"csflix/internal/observability/logging"
	"csflix/internal/observability/metrics"
	authservice "csflix/internal/service/auth"
)

const msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// Authenticator is the account service behind the login and registration forms.
type Authenticator interface {
	Register(ctx context.Context, username, password1, password2 string) (*entity.User, error)
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
}

// Handler serves the login, registration and logout pages.
type Handler struct {
	Auth     Authenticator
	Sessions *SessionManager
	View     *view.Renderer
	Logger   *slog.Logger
}

func (h *Handler) logger(r *http.Request) *slog.Logger {
	return logging.WithRequestID(r.Context(), h.Logger)
}

func loginPage(username, next, formError string) view.AuthPage {
	return view.AuthPage{
		Layout:    view.Layout{Title: "Log in"},
		Heading:   "Log in",
		Action:    LoginPath,
		Username:  username,
		Next:      next,
		FormError: formError,
	}
}

func registerPage(username, next string, errs map[string][]string) view.AuthPage {
	return view.AuthPage{
		Layout:   view.Layout{Title: "Register"},
		Heading:  "Register",
		Action:   RegisterPath,
		Register: true,
		Username: username,
		Next:     next,
		Errors:   errs,
	}
}

// formNext is the next value carried by a form; the home page needs none.
func formNext(raw string) string {
	if next := SafeNext(raw); next != "/" {
		return next
	}
	return ""
}

// Login renders the login form on GET and signs the user in on POST.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.View.Render(w, http.StatusOK, view.PageAuth, loginPage("", formNext(r.URL.Query().Get("next")), ""))
		return
	}

	start := time.Now()
	logger := h.logger(r)
	if err := r.ParseForm(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	username := r.PostFormValue("username")
	next := SafeNext(r.PostFormValue("next"))

	user, err := h.Auth.Authenticate(r.Context(), username, r.PostFormValue("password"))
	RecordAuthDuration("login", time.Since(start).Seconds())
	if err != nil {
		metrics.RecordAuth("login", false)
		if !errors.Is(err, authservice.ErrInvalidCredentials) {
			logger.Error("login failed", slog.String("error", respond.SanitizeError(err)))
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
		logger.Info("login rejected", slog.String("username", username))
		h.View.Render(w, http.StatusOK, view.PageAuth, loginPage(username, formNext(next), msgInvalidLogin))
		return
	}

	if err := h.Sessions.Issue(w, user.Username); err != nil {
		logger.Error("issue session failed", slog.String("error", err.Error()))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	metrics.RecordAuth("login", true)
	logger.Info("user logged in", slog.String("username", user.Username))
	http.Redirect(w, r, next, http.StatusFound)
}

// Register renders the registration form on GET and creates the account on POST.
// A new account is signed in straight away.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.View.Render(w, http.StatusOK, view.PageAuth, registerPage("", formNext(r.URL.Query().Get("next")), nil))
		return
	}

	start := time.Now()
	logger := h.logger(r)
	if err := r.ParseForm(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	username := r.PostFormValue("username")
	next := SafeNext(r.PostFormValue("next"))

	user, err := h.Auth.Register(r.Context(), username, r.PostFormValue("password1"), r.PostFormValue("password2"))
	RecordAuthDuration("register", time.Since(start).Seconds())
	if err != nil {
		metrics.RecordAuth("register", false)
		if errors.Is(err, entity.ErrValidationFailed) {
			h.View.Render(w, http.StatusOK, view.PageAuth, registerPage(username, formNext(next), entity.FieldMessages(err)))
			return
		}
		logger.Error("registration failed", slog.String("error", respond.SanitizeError(err)))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	metrics.RecordAuth("register", true)
	logger.Info("user registered", slog.String("username", user.Username))
	if err := h.Sessions.Issue(w, user.Username); err != nil {
		logger.Error("issue session failed", slog.String("error", err.Error()))
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}
	http.Redirect(w, r, next, http.StatusFound)
}

// Logout clears the session and returns to the home page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if u := UsernameFromContext(r.Context()); u != "" {
		h.logger(r).Info("user logged out", slog.String("username", u))
	}
	h.Sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
