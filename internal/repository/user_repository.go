package repository

import (
	"context"

	"csflix/internal/domain/entity"
)

type UserRepository interface {
	// Create inserts the user, setting user.ID.
	// Returns ErrDuplicateUsername if the username is taken.
	Create(ctx context.Context, user *entity.User) error
	// GetByUsername returns (nil, nil) if no such user exists.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
