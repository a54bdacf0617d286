package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/models"
)

// Films assembles films from the store, the like graph and reference data.
type Films struct {
	films FilmStore
	likes LikeStore
	refs  *References
}

// NewFilms constructs the film service.
func NewFilms(films FilmStore, likes LikeStore, refs *References) *Films {
	return &Films{films: films, likes: likes, refs: refs}
}

// Create validates and resolves the film's references, stores it and returns
// the assembled record with its new id.
func (s *Films) Create(ctx context.Context, film models.Film) (models.Film, error) {
	prepared, err := s.prepare(ctx, film)
	if err != nil {
		return models.Film{}, err
	}

	created, err := s.films.Create(ctx, prepared)
	if err != nil {
		return models.Film{}, fmt.Errorf("create film: %w", err)
	}

	logging.FromContext(ctx).Info("film created", slog.Int64("filmId", created.ID))
	return s.assemble(ctx, created, []int64{})
}

// Update replaces an existing film. Unknown ids fail with ErrNotFound.
func (s *Films) Update(ctx context.Context, film models.Film) (models.Film, error) {
	prepared, err := s.prepare(ctx, film)
	if err != nil {
		return models.Film{}, err
	}

	updated, err := s.films.Update(ctx, prepared)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Film{}, fmt.Errorf("film %d: %w", film.ID, ErrNotFound)
		}
		return models.Film{}, fmt.Errorf("update film %d: %w", film.ID, err)
	}

	likes, err := s.likes.ListForFilm(ctx, updated.ID)
	if err != nil {
		return models.Film{}, fmt.Errorf("list likes for film %d: %w", updated.ID, err)
	}

	logging.FromContext(ctx).Info("film updated", slog.Int64("filmId", updated.ID))
	return s.assemble(ctx, updated, likes)
}

// Get returns the assembled film with the given id.
func (s *Films) Get(ctx context.Context, id int64) (models.Film, error) {
	film, err := s.films.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Film{}, fmt.Errorf("film %d: %w", id, ErrNotFound)
		}
		return models.Film{}, fmt.Errorf("load film %d: %w", id, err)
	}

	likes, err := s.likes.ListForFilm(ctx, id)
	if err != nil {
		return models.Film{}, fmt.Errorf("list likes for film %d: %w", id, err)
	}
	return s.assemble(ctx, film, likes)
}

// List returns every film ordered by id.
func (s *Films) List(ctx context.Context) ([]models.Film, error) {
	films, likes, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.assembleAll(ctx, films, likes)
}

// Popular returns up to limit films ordered by like count, most liked first.
// Films with equal counts keep ascending id order. limit <= 0 yields no films.
func (s *Films) Popular(ctx context.Context, limit int) ([]models.Film, error) {
	ctx, span := logging.StartSpan(ctx, "films.popular")
	defer span.End()

	if limit <= 0 {
		return []models.Film{}, nil
	}

	films, likes, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(films, func(i, j int) bool {
		return len(likes[films[i].ID]) > len(likes[films[j].ID])
	})
	if len(films) > limit {
		films = films[:limit]
	}
	span.Annotate(slog.Int("limit", limit), slog.Int("returned", len(films)))

	return s.assembleAll(ctx, films, likes)
}

// Delete removes the film along with its likes.
func (s *Films) Delete(ctx context.Context, id int64) error {
	if err := s.films.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("film %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete film %d: %w", id, err)
	}

	logging.FromContext(ctx).Info("film deleted", slog.Int64("filmId", id))
	return nil
}

// prepare rejects a missing rating and canonicalizes the film's references
// before it reaches the store.
func (s *Films) prepare(ctx context.Context, film models.Film) (models.Film, error) {
	if film.MPA.ID == 0 {
		return models.Film{}, fmt.Errorf("film mpa rating is required: %w", ErrValidation)
	}

	rating, err := s.refs.ResolveRating(ctx, film.MPA.ID)
	if err != nil {
		return models.Film{}, err
	}
	genres, err := s.refs.ResolveGenres(ctx, film.Genres)
	if err != nil {
		return models.Film{}, err
	}

	film.MPA = rating
	film.Genres = genres
	film.Likes = nil
	return film, nil
}

// snapshot loads all films in id order and the likes of every film.
func (s *Films) snapshot(ctx context.Context) ([]models.Film, map[int64][]int64, error) {
	films, err := s.films.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list films: %w", err)
	}
	likes, err := s.likes.ListAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list likes: %w", err)
	}
	return films, likes, nil
}

func (s *Films) assembleAll(ctx context.Context, films []models.Film, likes map[int64][]int64) ([]models.Film, error) {
	out := make([]models.Film, 0, len(films))
	for _, film := range films {
		assembled, err := s.assemble(ctx, film, likes[film.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, assembled)
	}
	return out, nil
}

// assemble attaches the rating name, resolved genres and likes to a stored film.
func (s *Films) assemble(ctx context.Context, film models.Film, likes []int64) (models.Film, error) {
	rating, err := s.refs.ResolveRating(ctx, film.MPA.ID)
	if err != nil {
		return models.Film{}, fmt.Errorf("assemble film %d: %w", film.ID, err)
	}
	genres, err := s.refs.ResolveGenres(ctx, film.Genres)
	if err != nil {
		return models.Film{}, fmt.Errorf("assemble film %d: %w", film.ID, err)
	}
	if likes == nil {
		likes = []int64{}
	}

	film.MPA = rating
	film.Genres = genres
	film.Likes = likes
	return film, nil
}
