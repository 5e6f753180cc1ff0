// Package view renders the HTML pages of the site from an embedded template set.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"csflix/internal/handler/http/respond"
	artUC "csflix/internal/usecase/article"
)

// Page template names.
const (
	PageHome     = "home.html"
	PageArticles = "articles.html"
	PageComment  = "comment.html"
	PageAuth     = "auth.html"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"markdown": RenderMarkdown,
	"tagURL":   artUC.TagURLFor,
}

// Renderer executes page templates wrapped in the shared layout.
type Renderer struct {
	pages  map[string]*template.Template
	Logger *slog.Logger
}

// New parses every page template together with the layout.
func New(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{pages: make(map[string]*template.Template), Logger: logger}
	for _, name := range []string{PageHome, PageArticles, PageComment, PageAuth} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustNew is like New but panics on a template error.
func MustNew(logger *slog.Logger) *Renderer {
	r, err := New(logger)
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes page name with data and the given status.
// The page is rendered into a buffer first so a template error still produces a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.pages[name]
	if !ok {
		respond.SafeError(w, http.StatusInternalServerError, fmt.Errorf("unknown page %q", name))
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		r.Logger.Error("template execution failed",
			slog.String("page", name),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.Logger.Warn("failed to write page",
			slog.String("page", name),
			slog.Any("error", err))
	}
}
