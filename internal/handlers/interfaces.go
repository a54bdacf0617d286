package handlers

import (
	"context"

	"github.com/filmorate/backend/internal/models"
)

// FilmService exposes film assembly and ranking.
type FilmService interface {
	Create(ctx context.Context, film models.Film) (models.Film, error)
	Update(ctx context.Context, film models.Film) (models.Film, error)
	Get(ctx context.Context, id int64) (models.Film, error)
	List(ctx context.Context) ([]models.Film, error)
	Popular(ctx context.Context, limit int) ([]models.Film, error)
	Delete(ctx context.Context, id int64) error
}

// LikeService exposes the like graph.
type LikeService interface {
	Add(ctx context.Context, filmID, userID int64) error
	Remove(ctx context.Context, filmID, userID int64) error
}

// UserService exposes user assembly.
type UserService interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}

// FriendService exposes the friendship graph.
type FriendService interface {
	Add(ctx context.Context, a, b int64) error
	Remove(ctx context.Context, a, b int64) error
	List(ctx context.Context, a int64) ([]models.User, error)
	Common(ctx context.Context, a, b int64) ([]models.User, error)
}

// ReferenceService exposes rating and genre reference data.
type ReferenceService interface {
	ResolveRating(ctx context.Context, id int) (models.Rating, error)
	ResolveGenre(ctx context.Context, id int) (models.Genre, error)
	Ratings(ctx context.Context) ([]models.Rating, error)
	Genres(ctx context.Context) ([]models.Genre, error)
}

// RateLimiter is the minimal interface required to guard mutating endpoints.
type RateLimiter interface {
	Allow(key string) bool
}
