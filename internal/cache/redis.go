// Package cache provides a Redis-backed cache for rating and genre reference data.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/filmorate/backend/internal/catalog"
	"github.com/filmorate/backend/internal/config"
	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/metrics"
	"github.com/filmorate/backend/internal/models"
)

const (
	keyPrefix   = "filmorate:"
	breakerName = "redis-reference-cache"
)

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisDirectory caches reference lookups in Redis. Redis failures never fail a
// lookup: they trip the breaker and the wrapped directory answers directly.
type RedisDirectory struct {
	base    catalog.Directory
	client  redis.Cmdable
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewRedisDirectory wraps base with a Redis cache whose entries live for ttl.
func NewRedisDirectory(base catalog.Directory, client redis.Cmdable, ttl time.Duration) *RedisDirectory {
	if ttl <= 0 {
		ttl = time.Minute
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &RedisDirectory{base: base, client: client, ttl: ttl, breaker: breaker}
}

// Rating returns the rating from Redis or the wrapped directory.
func (d *RedisDirectory) Rating(ctx context.Context, id int) (models.Rating, error) {
	return lookup(ctx, d, "mpa:"+strconv.Itoa(id), func() (models.Rating, error) {
		return d.base.Rating(ctx, id)
	})
}

// Ratings returns the rating list from Redis or the wrapped directory.
func (d *RedisDirectory) Ratings(ctx context.Context) ([]models.Rating, error) {
	return lookup(ctx, d, "mpa:all", func() ([]models.Rating, error) {
		return d.base.Ratings(ctx)
	})
}

// Genre returns the genre from Redis or the wrapped directory.
func (d *RedisDirectory) Genre(ctx context.Context, id int) (models.Genre, error) {
	return lookup(ctx, d, "genre:"+strconv.Itoa(id), func() (models.Genre, error) {
		return d.base.Genre(ctx, id)
	})
}

// Genres returns the genre list from Redis or the wrapped directory.
func (d *RedisDirectory) Genres(ctx context.Context) ([]models.Genre, error) {
	return lookup(ctx, d, "genre:all", func() ([]models.Genre, error) {
		return d.base.Genres(ctx)
	})
}

// State reports the breaker state guarding Redis.
func (d *RedisDirectory) State() gobreaker.State {
	return d.breaker.State()
}

func lookup[T any](ctx context.Context, d *RedisDirectory, key string, load func() (T, error)) (T, error) {
	key = keyPrefix + key
	logger := logging.FromContext(ctx)

	raw, err := d.breaker.Execute(func() ([]byte, error) {
		data, err := d.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	switch {
	case err != nil:
		logger.Warn("redis cache read failed", slog.String("key", key), slog.Any("error", err))
		metrics.ReferenceCacheLookups.WithLabelValues("redis", "error").Inc()
	case raw != nil:
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			metrics.ReferenceCacheLookups.WithLabelValues("redis", "hit").Inc()
			return value, nil
		}
		logger.Warn("discarding undecodable cache entry", slog.String("key", key))
	default:
		metrics.ReferenceCacheLookups.WithLabelValues("redis", "miss").Inc()
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if _, err := d.breaker.Execute(func() ([]byte, error) {
		return nil, d.client.Set(ctx, key, payload, d.ttl).Err()
	}); err != nil {
		logger.Warn("redis cache write failed", slog.String("key", key), slog.Any("error", err))
	}
	return value, nil
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

var _ catalog.Directory = (*RedisDirectory)(nil)
