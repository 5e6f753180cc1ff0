package entity

import "time"

// Comment is a user comment on an article. Comments are append-only.
type Comment struct {
	ID        int64
	ArticleID int64
	Username  string
	Text      string
	CreatedAt time.Time
}

// User is a registered account allowed to comment.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
