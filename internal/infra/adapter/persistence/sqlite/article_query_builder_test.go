package sqlite_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"csflix/internal/infra/adapter/persistence/sqlite"
	"csflix/internal/repository"
)

/* ──────────────────────────── QueryBuilder Tests ──────────────────────────── */

func TestQueryBuilder_BuildWhereClause(t *testing.T) {
	t.Parallel()

	tagCond := "EXISTS (SELECT 1 FROM article_tags t WHERE t.article_id = articles.id AND t.tag = ? COLLATE NOCASE)"
	kwCond := `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR director LIKE ? ESCAPE '\')`

	tests := []struct {
		name       string
		filter     repository.ArticleFilter
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "zero filter",
			filter:     repository.ArticleFilter{},
			wantClause: "",
			wantArgs:   nil,
		},
		{
			name:       "blank search",
			filter:     repository.ArticleFilter{Search: "   "},
			wantClause: "",
			wantArgs:   nil,
		},
		{
			name:       "single keyword",
			filter:     repository.ArticleFilter{Search: "alien"},
			wantClause: "WHERE " + kwCond,
			wantArgs:   []interface{}{"%alien%", "%alien%", "%alien%"},
		},
		{
			name:       "multiple keywords",
			filter:     repository.ArticleFilter{Search: "ridley  scott"},
			wantClause: "WHERE " + kwCond + " AND " + kwCond,
			wantArgs:   []interface{}{"%ridley%", "%ridley%", "%ridley%", "%scott%", "%scott%", "%scott%"},
		},
		{
			name:       "wildcards are escaped",
			filter:     repository.ArticleFilter{Search: `% h_at a\b`},
			wantClause: "WHERE " + kwCond + " AND " + kwCond + " AND " + kwCond,
			wantArgs: []interface{}{
				`%\%%`, `%\%%`, `%\%%`,
				`%h\_at%`, `%h\_at%`, `%h\_at%`,
				`%a\\b%`, `%a\\b%`, `%a\\b%`,
			},
		},
		{
			name:       "tag only",
			filter:     repository.ArticleFilter{Tag: "Sci-Fi"},
			wantClause: "WHERE " + tagCond,
			wantArgs:   []interface{}{"Sci-Fi"},
		},
		{
			name:       "keyword and tag",
			filter:     repository.ArticleFilter{Search: "alien", Tag: " Horror "},
			wantClause: "WHERE " + kwCond + " AND " + tagCond,
			wantArgs:   []interface{}{"%alien%", "%alien%", "%alien%", "Horror"},
		},
	}

	qb := sqlite.NewArticleQueryBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := qb.BuildWhereClause(tt.filter)
			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
