// Package repository declares the persistence ports implemented by the adapters
// under internal/infra/adapter/persistence.
package repository

import "errors"

// ErrDuplicateUsername is returned by UserRepository.Create on a unique violation.
var ErrDuplicateUsername = errors.New("username already exists")
