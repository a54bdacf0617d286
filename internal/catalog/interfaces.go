package catalog

import (
	"context"

	"github.com/filmorate/backend/internal/models"
)

// FilmStore persists films and their genre links.
type FilmStore interface {
	Create(ctx context.Context, film models.Film) (models.Film, error)
	Update(ctx context.Context, film models.Film) (models.Film, error)
	FindByID(ctx context.Context, id int64) (models.Film, error)
	List(ctx context.Context) ([]models.Film, error)
	Delete(ctx context.Context, id int64) error
}

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}

// FriendStore persists mirrored friendship rows.
type FriendStore interface {
	Add(ctx context.Context, userID, friendID int64) error
	Remove(ctx context.Context, userID, friendID int64) error
	ListFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	ListAll(ctx context.Context) (map[int64][]int64, error)
}

// LikeStore persists likes and enforces their uniqueness.
type LikeStore interface {
	Add(ctx context.Context, filmID, userID int64) error
	Remove(ctx context.Context, filmID, userID int64) error
	ListForFilm(ctx context.Context, filmID int64) ([]int64, error)
	ListAll(ctx context.Context) (map[int64][]int64, error)
}

// Directory looks up immutable rating and genre records.
type Directory interface {
	Rating(ctx context.Context, id int) (models.Rating, error)
	Ratings(ctx context.Context) ([]models.Rating, error)
	Genre(ctx context.Context, id int) (models.Genre, error)
	Genres(ctx context.Context) ([]models.Genre, error)
}
