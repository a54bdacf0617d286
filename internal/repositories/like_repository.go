package repositories

import "context"

// LikeRepository defines data access for film likes. Add returns ErrConflict
// for a duplicate like and Remove returns ErrNotFound for a missing one.
type LikeRepository interface {
	Add(ctx context.Context, filmID, userID int64) error
	Remove(ctx context.Context, filmID, userID int64) error
	ListForFilm(ctx context.Context, filmID int64) ([]int64, error)
	ListAll(ctx context.Context) (map[int64][]int64, error)
}
