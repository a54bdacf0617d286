package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/filmorate/backend/internal/db"
	"github.com/filmorate/backend/internal/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translatePgError maps constraint violations onto the repository sentinels.
func translatePgError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgForeignKeyViolation:
			return ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record and returns it with its assigned id.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        INSERT INTO users (email, login, name, birthday)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, user.Email, user.Login, user.Name, user.Birthday)
	if err := row.Scan(&user.ID); err != nil {
		return models.User{}, translatePgError(err, "insert user")
	}

	return user, nil
}

// Update modifies an existing user record.
func (r *PostgresUserRepository) Update(ctx context.Context, user models.User) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET email = $2, login = $3, name = $4, birthday = $5
        WHERE id = $1
    `, user.ID, user.Email, user.Login, user.Name, user.Birthday)
	if err != nil {
		return models.User{}, translatePgError(err, "update user")
	}

	if tag.RowsAffected() == 0 {
		return models.User{}, ErrNotFound
	}

	return user, nil
}

// FindByID fetches a user by id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, email, login, name, birthday
        FROM users
        WHERE id = $1
    `, id)

	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &user.Birthday); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by id: %w", err)
	}

	return user, nil
}

// List returns every user ordered by id.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, email, login, name, birthday
        FROM users
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Login, &user.Name, &user.Birthday); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Delete removes a user. Friendships and likes cascade through foreign keys.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresFilmRepository provides PostgreSQL-backed persistence for films.
type PostgresFilmRepository struct {
	pool db.Pool
}

// NewPostgresFilmRepository constructs a film repository backed by PostgreSQL.
func NewPostgresFilmRepository(pool db.Pool) *PostgresFilmRepository {
	return &PostgresFilmRepository{pool: pool}
}

// Create inserts the film row and its genre links in one transaction.
func (r *PostgresFilmRepository) Create(ctx context.Context, film models.Film) (models.Film, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Film{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return models.Film{}, fmt.Errorf("begin film insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
        INSERT INTO films (name, description, release_date, duration, mpa_rating_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, film.Name, film.Description, film.ReleaseDate, film.Duration, film.MPA.ID)
	if err := row.Scan(&film.ID); err != nil {
		return models.Film{}, translatePgError(err, "insert film")
	}

	if err := insertFilmGenres(ctx, tx, film); err != nil {
		return models.Film{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Film{}, fmt.Errorf("commit film insert: %w", err)
	}

	return film, nil
}

// Update rewrites the film row and replaces its genre links.
func (r *PostgresFilmRepository) Update(ctx context.Context, film models.Film) (models.Film, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Film{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return models.Film{}, fmt.Errorf("begin film update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
        UPDATE films
        SET name = $2, description = $3, release_date = $4, duration = $5, mpa_rating_id = $6
        WHERE id = $1
    `, film.ID, film.Name, film.Description, film.ReleaseDate, film.Duration, film.MPA.ID)
	if err != nil {
		return models.Film{}, translatePgError(err, "update film")
	}
	if tag.RowsAffected() == 0 {
		return models.Film{}, ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM film_genres WHERE film_id = $1`, film.ID); err != nil {
		return models.Film{}, fmt.Errorf("clear film genres: %w", err)
	}

	if err := insertFilmGenres(ctx, tx, film); err != nil {
		return models.Film{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Film{}, fmt.Errorf("commit film update: %w", err)
	}

	return film, nil
}

func insertFilmGenres(ctx context.Context, tx pgx.Tx, film models.Film) error {
	if len(film.Genres) == 0 {
		return nil
	}

	ids := make([]int32, 0, len(film.Genres))
	for _, genre := range film.Genres {
		ids = append(ids, int32(genre.ID))
	}

	_, err := tx.Exec(ctx, `
        INSERT INTO film_genres (film_id, genre_id)
        SELECT $1, g FROM unnest($2::int[]) AS g
        ON CONFLICT DO NOTHING
    `, film.ID, ids)
	if err != nil {
		return translatePgError(err, "insert film genres")
	}
	return nil
}

// FindByID fetches a film and its genre ids.
func (r *PostgresFilmRepository) FindByID(ctx context.Context, id int64) (models.Film, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Film{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, name, description, release_date, duration, mpa_rating_id
        FROM films
        WHERE id = $1
    `, id)

	var film models.Film
	if err := row.Scan(&film.ID, &film.Name, &film.Description, &film.ReleaseDate, &film.Duration, &film.MPA.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Film{}, ErrNotFound
		}
		return models.Film{}, fmt.Errorf("select film by id: %w", err)
	}

	rows, err := conn.Query(ctx, `
        SELECT genre_id
        FROM film_genres
        WHERE film_id = $1
        ORDER BY genre_id
    `, id)
	if err != nil {
		return models.Film{}, fmt.Errorf("query film genres: %w", err)
	}
	defer rows.Close()

	film.Genres = []models.Genre{}
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.ID); err != nil {
			return models.Film{}, fmt.Errorf("scan film genre: %w", err)
		}
		film.Genres = append(film.Genres, genre)
	}

	if err := rows.Err(); err != nil {
		return models.Film{}, fmt.Errorf("iterate film genres: %w", err)
	}

	return film, nil
}

// List returns every film ordered by id with genre ids attached.
func (r *PostgresFilmRepository) List(ctx context.Context) ([]models.Film, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, name, description, release_date, duration, mpa_rating_id
        FROM films
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("query films: %w", err)
	}

	films := []models.Film{}
	index := make(map[int64]int)
	for rows.Next() {
		var film models.Film
		if err := rows.Scan(&film.ID, &film.Name, &film.Description, &film.ReleaseDate, &film.Duration, &film.MPA.ID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan film: %w", err)
		}
		film.Genres = []models.Genre{}
		index[film.ID] = len(films)
		films = append(films, film)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate films: %w", err)
	}

	links, err := conn.Query(ctx, `
        SELECT film_id, genre_id
        FROM film_genres
        ORDER BY film_id, genre_id
    `)
	if err != nil {
		return nil, fmt.Errorf("query film genres: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var (
			filmID  int64
			genreID int
		)
		if err := links.Scan(&filmID, &genreID); err != nil {
			return nil, fmt.Errorf("scan film genre: %w", err)
		}
		if i, ok := index[filmID]; ok {
			films[i].Genres = append(films[i].Genres, models.Genre{ID: genreID})
		}
	}

	if err := links.Err(); err != nil {
		return nil, fmt.Errorf("iterate film genres: %w", err)
	}

	return films, nil
}

// Delete removes a film. Likes and genre links cascade through foreign keys.
func (r *PostgresFilmRepository) Delete(ctx context.Context, id int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete film: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ FilmRepository = (*PostgresFilmRepository)(nil)
