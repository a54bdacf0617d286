package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/metrics"
)

// Likes maintains the many-to-many relation between users and the films they like.
// Unlike friendships, duplicate adds and missing removes are caller errors.
type Likes struct {
	films FilmStore
	users UserStore
	likes LikeStore
}

// NewLikes constructs the like graph over the provided stores.
func NewLikes(films FilmStore, users UserStore, likes LikeStore) *Likes {
	return &Likes{films: films, users: users, likes: likes}
}

// Add records that userID likes filmID. A repeated like fails with ErrConflict.
func (l *Likes) Add(ctx context.Context, filmID, userID int64) error {
	if err := l.requireParticipants(ctx, filmID, userID); err != nil {
		return err
	}

	if err := l.likes.Add(ctx, filmID, userID); err != nil {
		if errors.Is(err, ErrConflict) {
			metrics.LikeOperations.WithLabelValues("add", "conflict").Inc()
			return fmt.Errorf("user %d already likes film %d: %w", userID, filmID, ErrConflict)
		}
		return fmt.Errorf("add like %d-%d: %w", filmID, userID, err)
	}

	metrics.LikeOperations.WithLabelValues("add", "ok").Inc()
	logging.FromContext(ctx).Info("like added", slog.Int64("filmId", filmID), slog.Int64("userId", userID))
	return nil
}

// Remove deletes the like. A like that does not exist fails with ErrNotFound.
func (l *Likes) Remove(ctx context.Context, filmID, userID int64) error {
	if err := l.requireParticipants(ctx, filmID, userID); err != nil {
		return err
	}

	if err := l.likes.Remove(ctx, filmID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.LikeOperations.WithLabelValues("remove", "missing").Inc()
			return fmt.Errorf("user %d does not like film %d: %w", userID, filmID, ErrNotFound)
		}
		return fmt.Errorf("remove like %d-%d: %w", filmID, userID, err)
	}

	metrics.LikeOperations.WithLabelValues("remove", "ok").Inc()
	logging.FromContext(ctx).Info("like removed", slog.Int64("filmId", filmID), slog.Int64("userId", userID))
	return nil
}

// Count returns how many users like filmID.
func (l *Likes) Count(ctx context.Context, filmID int64) (int, error) {
	if err := requireFilm(ctx, l.films, filmID); err != nil {
		return 0, err
	}

	ids, err := l.likes.ListForFilm(ctx, filmID)
	if err != nil {
		return 0, fmt.Errorf("list likes for film %d: %w", filmID, err)
	}
	return len(ids), nil
}

func (l *Likes) requireParticipants(ctx context.Context, filmID, userID int64) error {
	if err := requireFilm(ctx, l.films, filmID); err != nil {
		return err
	}
	if _, err := l.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("load user %d: %w", userID, err)
	}
	return nil
}

func requireFilm(ctx context.Context, films FilmStore, id int64) error {
	if _, err := films.FindByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("film %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("load film %d: %w", id, err)
	}
	return nil
}
