package repositories

import (
	"context"

	"github.com/filmorate/backend/internal/models"
)

// ReferenceRepository provides read access to immutable rating and genre data.
type ReferenceRepository interface {
	Rating(ctx context.Context, id int) (models.Rating, error)
	Ratings(ctx context.Context) ([]models.Rating, error)
	Genre(ctx context.Context, id int) (models.Genre, error)
	Genres(ctx context.Context) ([]models.Genre, error)
}

// DefaultRatings lists the MPA ratings shipped with the service.
var DefaultRatings = []models.Rating{
	{ID: 1, Name: "G"},
	{ID: 2, Name: "PG"},
	{ID: 3, Name: "PG-13"},
	{ID: 4, Name: "R"},
	{ID: 5, Name: "NC-17"},
}

// DefaultGenres lists the genres shipped with the service.
var DefaultGenres = []models.Genre{
	{ID: 1, Name: "Комедия"},
	{ID: 2, Name: "Драма"},
	{ID: 3, Name: "Мультфильм"},
	{ID: 4, Name: "Триллер"},
	{ID: 5, Name: "Документальный"},
	{ID: 6, Name: "Боевик"},
}
