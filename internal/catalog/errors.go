package catalog

import (
	"errors"

	"github.com/filmorate/backend/internal/repositories"
)

var (
	// ErrNotFound indicates a referenced film, user, genre, rating or like does not exist.
	ErrNotFound = repositories.ErrNotFound
	// ErrConflict indicates the operation would violate a uniqueness rule.
	ErrConflict = repositories.ErrConflict
	// ErrValidation indicates a business rule was violated before storage was touched.
	ErrValidation = errors.New("validation failed")
)
