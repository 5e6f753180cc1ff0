// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"csflix/internal/repository"
)

// ArticleQueryBuilder builds WHERE clauses for filtered article listings in PostgreSQL.
// It uses ILIKE for case-insensitive matching and numbered placeholders ($1, $2, ...).
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause builds the WHERE clause and arguments for filter.
// Search is split on whitespace; every keyword must match title, description or director.
// Returns an empty clause for a zero filter.
func (qb *ArticleQueryBuilder) BuildWhereClause(filter repository.ArticleFilter) (clause string, args []interface{}) {
	var conditions []string
	n := 1

	for _, keyword := range strings.Fields(filter.Search) {
		args = append(args, "%"+escapeILIKE(keyword)+"%")
		conditions = append(conditions,
			fmt.Sprintf("(a.title ILIKE $%d OR a.description ILIKE $%d OR a.director ILIKE $%d)", n, n, n))
		n++
	}

	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		args = append(args, tag)
		conditions = append(conditions,
			fmt.Sprintf("EXISTS (SELECT 1 FROM article_tags t WHERE t.article_id = a.id AND lower(t.tag) = lower($%d))", n))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// escapeILIKE escapes the ILIKE wildcards so keywords match literally.
func escapeILIKE(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// placeholders returns "$from, $from+1, ..." for n arguments.
func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}
