package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/filmorate/backend/internal/catalog"
	"github.com/filmorate/backend/internal/config"
	"github.com/filmorate/backend/internal/repositories"
)

func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisDirectoryFallsBackWhenRedisIsDown(t *testing.T) {
	base := repositories.NewMemoryStore().References
	dir := NewRedisDirectory(base, unreachableClient(t), time.Minute)
	ctx := context.Background()

	rating, err := dir.Rating(ctx, 2)
	if err != nil {
		t.Fatalf("rating: %v", err)
	}
	if rating.Name != "PG" {
		t.Fatalf("expected PG got %q", rating.Name)
	}

	genres, err := dir.Genres(ctx)
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	if len(genres) != len(repositories.DefaultGenres) {
		t.Fatalf("expected %d genres got %d", len(repositories.DefaultGenres), len(genres))
	}

	if dir.State() != gobreaker.StateOpen {
		t.Fatalf("expected breaker to open after repeated failures got %v", dir.State())
	}

	genre, err := dir.Genre(ctx, 1)
	if err != nil {
		t.Fatalf("genre with open breaker: %v", err)
	}
	if genre.Name != "Комедия" {
		t.Fatalf("expected Комедия got %q", genre.Name)
	}
}

func TestRedisDirectoryPropagatesNotFound(t *testing.T) {
	base := repositories.NewMemoryStore().References
	dir := NewRedisDirectory(base, unreachableClient(t), time.Minute)

	if _, err := dir.Genre(context.Background(), 404); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
	if _, err := dir.Rating(context.Background(), 404); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestRedisDirectoryDefaultTTL(t *testing.T) {
	dir := NewRedisDirectory(repositories.NewMemoryStore().References, unreachableClient(t), 0)
	if dir.ttl <= 0 {
		t.Fatalf("expected positive default ttl got %v", dir.ttl)
	}
}

func TestNewRedisClientFailsWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := NewRedisClient(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestStateValue(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		want  float64
	}{
		{gobreaker.StateClosed, 0},
		{gobreaker.StateHalfOpen, 1},
		{gobreaker.StateOpen, 2},
	}
	for _, tt := range tests {
		if got := stateValue(tt.state); got != tt.want {
			t.Fatalf("stateValue(%v) = %v want %v", tt.state, got, tt.want)
		}
	}
}
