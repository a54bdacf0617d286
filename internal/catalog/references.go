package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/filmorate/backend/internal/models"
)

// References resolves rating and genre references carried by films.
type References struct {
	dir Directory
}

// NewReferences constructs a resolver over the provided directory.
func NewReferences(dir Directory) *References {
	return &References{dir: dir}
}

// ResolveRating returns the canonical rating for id.
func (r *References) ResolveRating(ctx context.Context, id int) (models.Rating, error) {
	rating, err := r.dir.Rating(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Rating{}, fmt.Errorf("mpa rating %d: %w", id, ErrNotFound)
		}
		return models.Rating{}, fmt.Errorf("lookup mpa rating %d: %w", id, err)
	}
	return rating, nil
}

// ResolveGenre returns the canonical genre for id.
func (r *References) ResolveGenre(ctx context.Context, id int) (models.Genre, error) {
	genre, err := r.dir.Genre(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Genre{}, fmt.Errorf("genre %d: %w", id, ErrNotFound)
		}
		return models.Genre{}, fmt.Errorf("lookup genre %d: %w", id, err)
	}
	return genre, nil
}

// ResolveGenres deduplicates refs by id, resolves each one and returns them
// ordered by ascending id. The first unknown id, in input order, fails the call.
func (r *References) ResolveGenres(ctx context.Context, refs []models.Genre) ([]models.Genre, error) {
	genres := make([]models.Genre, 0, len(refs))
	seen := make(map[int]struct{}, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.ID]; ok {
			continue
		}
		seen[ref.ID] = struct{}{}

		genre, err := r.ResolveGenre(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}

	slices.SortFunc(genres, func(a, b models.Genre) int { return a.ID - b.ID })
	return genres, nil
}

// Ratings lists every rating ordered by id.
func (r *References) Ratings(ctx context.Context) ([]models.Rating, error) {
	ratings, err := r.dir.Ratings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mpa ratings: %w", err)
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	return ratings, nil
}

// Genres lists every genre ordered by id.
func (r *References) Genres(ctx context.Context) ([]models.Genre, error) {
	genres, err := r.dir.Genres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	if genres == nil {
		genres = []models.Genre{}
	}
	return genres, nil
}
