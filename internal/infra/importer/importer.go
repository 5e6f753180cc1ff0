// Package importer loads the movie catalogue from CSV files.
//
// The header row names the columns; only Title is required. Recognised columns:
// Title, Genre (comma-separated, becomes the tags), Description, Director and
// Year (the article date becomes January 1st of that year). Other columns,
// such as Rank or Actors, are ignored.
package importer

import (
	"context"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"csflix/internal/domain/entity"
	"csflix/internal/observability/metrics"
	"csflix/internal/repository"
)

// SeedCSV is the bundled starter catalogue.
//
//go:embed seed/movies.csv
var SeedCSV string

// ErrMissingTitleColumn is returned when the header has no Title column.
var ErrMissingTitleColumn = errors.New("csv header has no Title column")

// RowError describes a row that could not be turned into an article.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reader decodes articles from CSV one row at a time.
type Reader struct {
	csv  *csv.Reader
	cols map[string]int
}

// NewReader reads the header row of r.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		cols[name] = i
	}
	if _, ok := cols["title"]; !ok {
		return nil, ErrMissingTitleColumn
	}
	return &Reader{csv: cr, cols: cols}, nil
}

func (r *Reader) field(rec []string, name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// Next returns the next article. It returns io.EOF after the last row and a
// *RowError for a row that is malformed; reading may continue after a RowError.
func (r *Reader) Next() (*entity.Article, error) {
	rec, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, &RowError{Line: perr.Line, Err: perr.Err}
		}
		return nil, err
	}
	line, _ := r.csv.FieldPos(0)

	a := &entity.Article{
		Title:       r.field(rec, "title"),
		Description: r.field(rec, "description"),
		Director:    r.field(rec, "director"),
		Tags:        entity.NormalizeTags(strings.Split(r.field(rec, "genre"), ",")),
	}
	if a.Title == "" {
		return nil, &RowError{Line: line, Err: errors.New("empty title")}
	}
	if y := r.field(rec, "year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < 1870 || year > 9999 {
			return nil, &RowError{Line: line, Err: fmt.Errorf("invalid year %q", y)}
		}
		a.Date = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return a, nil
}

// Result summarises an import.
type Result struct {
	Imported int
	Skipped  int
}

// Importer writes CSV rows into the article repository.
type Importer struct {
	Repo   repository.ArticleRepository
	Logger *slog.Logger
}

// Import stores every valid row of r. Malformed rows and repeated
// title/year pairs are skipped and logged. A repository error aborts the import.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	reader, err := NewReader(r)
	if err != nil {
		return res, err
	}

	seen := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		a, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			im.Logger.Warn("skipping csv row", slog.Int("line", rowErr.Line), slog.Any("error", rowErr.Err))
			res.Skipped++
			metrics.RecordImport(false)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("read csv: %w", err)
		}

		key := strings.ToLower(a.Title) + "|" + a.DateString()
		if _, dup := seen[key]; dup {
			res.Skipped++
			metrics.RecordImport(false)
			continue
		}
		seen[key] = struct{}{}

		if err := im.Repo.Create(ctx, a); err != nil {
			return res, fmt.Errorf("create %q: %w", a.Title, err)
		}
		res.Imported++
		metrics.RecordImport(true)
	}

	im.Logger.Info("catalogue import finished",
		slog.Int("imported", res.Imported),
		slog.Int("skipped", res.Skipped))
	return res, nil
}

// SeedIfEmpty imports SeedCSV when the catalogue has no articles.
func (im *Importer) SeedIfEmpty(ctx context.Context) (Result, error) {
	n, err := im.Repo.CountArticles(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count articles: %w", err)
	}
	if n > 0 {
		return Result{}, nil
	}
	return im.Import(ctx, strings.NewReader(SeedCSV))
}
