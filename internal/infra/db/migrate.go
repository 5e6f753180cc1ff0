package db

import (
	"context"
	"fmt"
)

// schema lists the statements creating the catalogue tables, per dialect.
var schema = map[Dialect][]string{
	SQLite: {
		`CREATE TABLE IF NOT EXISTS articles (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    director    TEXT NOT NULL DEFAULT '',
    date        DATE NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS article_tags (
    article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    tag        TEXT NOT NULL,
    PRIMARY KEY (article_id, tag)
)`,
		`CREATE TABLE IF NOT EXISTS comments (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    username   TEXT NOT NULL,
    text       TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date)`,
		`CREATE INDEX IF NOT EXISTS idx_article_tags_tag ON article_tags(tag COLLATE NOCASE)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_article_id ON comments(article_id, id)`,
	},
	Postgres: {
		`CREATE TABLE IF NOT EXISTS articles (
    id          BIGSERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    director    TEXT NOT NULL DEFAULT '',
    date        DATE NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS article_tags (
    article_id BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    tag        TEXT NOT NULL,
    PRIMARY KEY (article_id, tag)
)`,
		`CREATE TABLE IF NOT EXISTS comments (
    id         BIGSERIAL PRIMARY KEY,
    article_id BIGINT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
    username   TEXT NOT NULL,
    text       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date)`,
		`CREATE INDEX IF NOT EXISTS idx_article_tags_tag ON article_tags(lower(tag))`,
		`CREATE INDEX IF NOT EXISTS idx_comments_article_id ON comments(article_id, id)`,
	},
}

// teardown drops the catalogue tables in reverse dependency order.
var teardown = []string{
	`DROP TABLE IF EXISTS comments`,
	`DROP TABLE IF EXISTS article_tags`,
	`DROP TABLE IF EXISTS users`,
	`DROP TABLE IF EXISTS articles`,
}

// MigrateUp creates the catalogue schema. It is idempotent.
func MigrateUp(ctx context.Context, db Querier, dialect Dialect) error {
	stmts, ok := schema[dialect]
	if !ok {
		return fmt.Errorf("migrate up: unsupported dialect %q", dialect)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}
	return nil
}

// MigrateDown drops the catalogue schema.
// Use with caution: this will delete all data in the affected tables.
func MigrateDown(ctx context.Context, db Querier) error {
	for _, stmt := range teardown {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	return nil
}
