package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/filmorate/backend/internal/db"
	"github.com/filmorate/backend/internal/models"
)

// PostgresFriendRepository provides PostgreSQL-backed persistence for friendships.
type PostgresFriendRepository struct {
	pool db.Pool
}

// NewPostgresFriendRepository constructs a friend repository backed by PostgreSQL.
func NewPostgresFriendRepository(pool db.Pool) *PostgresFriendRepository {
	return &PostgresFriendRepository{pool: pool}
}

// Add writes both directions of the friendship. Existing rows are left untouched.
func (r *PostgresFriendRepository) Add(ctx context.Context, userID, friendID int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO friendships (user_id, friend_id, status)
        VALUES ($1, $2, $3), ($2, $1, $3)
        ON CONFLICT (user_id, friend_id) DO NOTHING
    `, userID, friendID, string(models.FriendshipConfirmed))
	if err != nil {
		return translatePgError(err, "insert friendship")
	}

	return nil
}

// Remove deletes both directions of the friendship if present.
func (r *PostgresFriendRepository) Remove(ctx context.Context, userID, friendID int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        DELETE FROM friendships
        WHERE (user_id = $1 AND friend_id = $2)
           OR (user_id = $2 AND friend_id = $1)
    `, userID, friendID)
	if err != nil {
		return fmt.Errorf("delete friendship: %w", err)
	}

	return nil
}

// ListFriendIDs returns the ids the user is friends with, ascending.
func (r *PostgresFriendRepository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT friend_id
        FROM friendships
        WHERE user_id = $1
        ORDER BY friend_id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query friendships: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect friendships: %w", err)
	}
	return ids, nil
}

// ListAll returns the friend ids of every user that has at least one friend.
func (r *PostgresFriendRepository) ListAll(ctx context.Context) (map[int64][]int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT user_id, friend_id
        FROM friendships
        ORDER BY user_id, friend_id
    `)
	if err != nil {
		return nil, fmt.Errorf("query friendships: %w", err)
	}
	defer rows.Close()

	return scanEdgeMap(rows, "friendship")
}

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Add records a like. The (film_id, user_id) primary key rejects duplicates.
func (r *PostgresLikeRepository) Add(ctx context.Context, filmID, userID int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO film_likes (film_id, user_id)
        VALUES ($1, $2)
    `, filmID, userID)
	if err != nil {
		return translatePgError(err, "insert like")
	}

	return nil
}

// Remove deletes a like, returning ErrNotFound when it does not exist.
func (r *PostgresLikeRepository) Remove(ctx context.Context, filmID, userID int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM film_likes
        WHERE film_id = $1 AND user_id = $2
    `, filmID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListForFilm returns the ids of users who liked the film, ascending.
func (r *PostgresLikeRepository) ListForFilm(ctx context.Context, filmID int64) ([]int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT user_id
        FROM film_likes
        WHERE film_id = $1
        ORDER BY user_id
    `, filmID)
	if err != nil {
		return nil, fmt.Errorf("query likes: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collect likes: %w", err)
	}
	return ids, nil
}

// ListAll returns the liking user ids for every film that has likes.
func (r *PostgresLikeRepository) ListAll(ctx context.Context) (map[int64][]int64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT film_id, user_id
        FROM film_likes
        ORDER BY film_id, user_id
    `)
	if err != nil {
		return nil, fmt.Errorf("query likes: %w", err)
	}
	defer rows.Close()

	return scanEdgeMap(rows, "like")
}

func scanEdgeMap(rows pgx.Rows, kind string) (map[int64][]int64, error) {
	edges := make(map[int64][]int64)
	for rows.Next() {
		var from, to int64
		if err := rows.Scan(&from, &to); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		edges[from] = append(edges[from], to)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", kind, err)
	}
	return edges, nil
}

// PostgresReferenceRepository reads MPA ratings and genres from PostgreSQL.
type PostgresReferenceRepository struct {
	pool db.Pool
}

// NewPostgresReferenceRepository constructs a reference repository backed by PostgreSQL.
func NewPostgresReferenceRepository(pool db.Pool) *PostgresReferenceRepository {
	return &PostgresReferenceRepository{pool: pool}
}

// Rating fetches one MPA rating.
func (r *PostgresReferenceRepository) Rating(ctx context.Context, id int) (models.Rating, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Rating{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var rating models.Rating
	err = conn.QueryRow(ctx, `SELECT id, name FROM mpa_ratings WHERE id = $1`, id).Scan(&rating.ID, &rating.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rating{}, ErrNotFound
		}
		return models.Rating{}, fmt.Errorf("select rating: %w", err)
	}
	return rating, nil
}

// Ratings lists all MPA ratings ordered by id.
func (r *PostgresReferenceRepository) Ratings(ctx context.Context) ([]models.Rating, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id, name FROM mpa_ratings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}

	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Rating, error) {
		var rating models.Rating
		err := row.Scan(&rating.ID, &rating.Name)
		return rating, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect ratings: %w", err)
	}
	return ratings, nil
}

// Genre fetches one genre.
func (r *PostgresReferenceRepository) Genre(ctx context.Context, id int) (models.Genre, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Genre{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var genre models.Genre
	err = conn.QueryRow(ctx, `SELECT id, name FROM genres WHERE id = $1`, id).Scan(&genre.ID, &genre.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Genre{}, ErrNotFound
		}
		return models.Genre{}, fmt.Errorf("select genre: %w", err)
	}
	return genre, nil
}

// Genres lists all genres ordered by id.
func (r *PostgresReferenceRepository) Genres(ctx context.Context) ([]models.Genre, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT id, name FROM genres ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}

	genres, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Genre, error) {
		var genre models.Genre
		err := row.Scan(&genre.ID, &genre.Name)
		return genre, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect genres: %w", err)
	}
	return genres, nil
}

var _ FriendRepository = (*PostgresFriendRepository)(nil)
var _ LikeRepository = (*PostgresLikeRepository)(nil)
var _ ReferenceRepository = (*PostgresReferenceRepository)(nil)
