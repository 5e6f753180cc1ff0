package sqlite

import (
	"strings"

	"csflix/internal/repository"
)

// ArticleQueryBuilder builds WHERE clauses for filtered article listings.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildWhereClause builds the WHERE clause and arguments for filter.
// Search is split on whitespace; every keyword must match title, description or director.
// Tag matches case-insensitively. Returns an empty clause for a zero filter.
func (qb *ArticleQueryBuilder) BuildWhereClause(filter repository.ArticleFilter) (clause string, args []interface{}) {
	var conditions []string

	for _, keyword := range strings.Fields(filter.Search) {
		like := "%" + escapeLIKE(keyword) + "%"
		conditions = append(conditions,
			`(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR director LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}

	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM article_tags t WHERE t.article_id = articles.id AND t.tag = ? COLLATE NOCASE)")
		args = append(args, tag)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// escapeLIKE escapes the LIKE wildcards so keywords match literally.
func escapeLIKE(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
