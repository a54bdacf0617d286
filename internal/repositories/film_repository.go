package repositories

import (
	"context"

	"github.com/filmorate/backend/internal/models"
)

// FilmRepository exposes data access for films and their genre links.
//
// Films are returned with MPA.ID and Genre IDs populated; names are resolved
// by the caller against the reference directory.
type FilmRepository interface {
	Create(ctx context.Context, film models.Film) (models.Film, error)
	Update(ctx context.Context, film models.Film) (models.Film, error)
	FindByID(ctx context.Context, id int64) (models.Film, error)
	List(ctx context.Context) ([]models.Film, error)
	Delete(ctx context.Context, id int64) error
}
