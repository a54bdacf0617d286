// Package export builds point-in-time JSON snapshots of the catalog and hands
// them to an object store.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/filmorate/backend/internal/catalog"
	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/models"
)

const dateLayout = "2006-01-02"

// Uploader stores an encoded snapshot under key and reports where it landed.
type Uploader interface {
	Save(ctx context.Context, key string, r io.Reader) (string, error)
}

// Snapshot is the exported view of the catalog.
type Snapshot struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Ratings     []Rating  `json:"mpa"`
	Genres      []Genre   `json:"genres"`
	Films       []Film    `json:"films"`
	Users       []User    `json:"users"`
}

// Rating is an exported MPA rating.
type Rating struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Genre is an exported film genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Film is an exported film with its genres and likers.
type Film struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReleaseDate string  `json:"releaseDate"`
	Duration    int     `json:"duration"`
	MPA         Rating  `json:"mpa"`
	Genres      []Genre `json:"genres"`
	Likes       []int64 `json:"likes"`
}

// User is an exported user with the ids of their friends.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Login    string  `json:"login"`
	Name     string  `json:"name"`
	Birthday string  `json:"birthday"`
	Friends  []int64 `json:"friends"`
}

// Build assembles a snapshot of every film, user and reference record.
func Build(ctx context.Context, c *catalog.Catalog, now time.Time) (Snapshot, error) {
	ratings, err := c.References.Ratings(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	genres, err := c.References.Genres(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	films, err := c.Films.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	users, err := c.Users.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		GeneratedAt: now.UTC(),
		Ratings:     make([]Rating, 0, len(ratings)),
		Genres:      make([]Genre, 0, len(genres)),
		Films:       make([]Film, 0, len(films)),
		Users:       make([]User, 0, len(users)),
	}
	for _, rating := range ratings {
		snap.Ratings = append(snap.Ratings, Rating(rating))
	}
	for _, genre := range genres {
		snap.Genres = append(snap.Genres, Genre(genre))
	}
	for _, film := range films {
		snap.Films = append(snap.Films, newFilm(film))
	}
	for _, user := range users {
		snap.Users = append(snap.Users, newUser(user))
	}
	return snap, nil
}

// Publish builds a snapshot, encodes it as JSON and uploads it under key.
func Publish(ctx context.Context, c *catalog.Catalog, uploader Uploader, key string, now time.Time) (string, error) {
	ctx, span := logging.StartSpan(ctx, "catalog.export")
	defer span.End()

	snap, err := Build(ctx, c, now)
	if err != nil {
		return "", fmt.Errorf("build snapshot: %w", err)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(snap); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	size := buf.Len()

	location, err := uploader.Save(ctx, key, &buf)
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	span.Annotate(
		slog.Int("films", len(snap.Films)),
		slog.Int("users", len(snap.Users)),
		slog.Int("bytes", size),
	)
	logging.FromContext(ctx).Info("catalog exported", slog.String("location", location))
	return location, nil
}

// DefaultKey names an export by its generation time.
func DefaultKey(now time.Time) string {
	return fmt.Sprintf("exports/catalog-%s.json", now.UTC().Format("20060102T150405Z"))
}

func newFilm(film models.Film) Film {
	genres := make([]Genre, 0, len(film.Genres))
	for _, genre := range film.Genres {
		genres = append(genres, Genre(genre))
	}
	likes := film.Likes
	if likes == nil {
		likes = []int64{}
	}
	return Film{
		ID:          film.ID,
		Name:        film.Name,
		Description: film.Description,
		ReleaseDate: film.ReleaseDate.Format(dateLayout),
		Duration:    film.Duration,
		MPA:         Rating(film.MPA),
		Genres:      genres,
		Likes:       likes,
	}
}

func newUser(user models.User) User {
	friends := user.Friends
	if friends == nil {
		friends = []int64{}
	}
	return User{
		ID:       user.ID,
		Email:    user.Email,
		Login:    user.Login,
		Name:     user.Name,
		Birthday: user.Birthday.Format(dateLayout),
		Friends:  friends,
	}
}
