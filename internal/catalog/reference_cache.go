package catalog

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/filmorate/backend/internal/metrics"
	"github.com/filmorate/backend/internal/models"
)

type cacheEntry struct {
	value   any
	expires time.Time
}

// CachingDirectory wraps another Directory with a TTL-based in-memory cache.
// Rating and genre rows never change at runtime, so misses are the only
// lookups that reach the wrapped directory.
type CachingDirectory struct {
	base Directory
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachingDirectory returns a Directory that caches lookups for the provided TTL.
func NewCachingDirectory(base Directory, ttl time.Duration) *CachingDirectory {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingDirectory{
		base:  base,
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

// Rating returns the cached rating or loads it from the wrapped directory.
func (c *CachingDirectory) Rating(ctx context.Context, id int) (models.Rating, error) {
	return cached(c, "mpa:"+strconv.Itoa(id), func() (models.Rating, error) {
		return c.base.Rating(ctx, id)
	})
}

// Ratings returns the cached rating list or loads it from the wrapped directory.
func (c *CachingDirectory) Ratings(ctx context.Context) ([]models.Rating, error) {
	return cached(c, "mpa:all", func() ([]models.Rating, error) {
		return c.base.Ratings(ctx)
	})
}

// Genre returns the cached genre or loads it from the wrapped directory.
func (c *CachingDirectory) Genre(ctx context.Context, id int) (models.Genre, error) {
	return cached(c, "genre:"+strconv.Itoa(id), func() (models.Genre, error) {
		return c.base.Genre(ctx, id)
	})
}

// Genres returns the cached genre list or loads it from the wrapped directory.
func (c *CachingDirectory) Genres(ctx context.Context) ([]models.Genre, error) {
	return cached(c, "genre:all", func() ([]models.Genre, error) {
		return c.base.Genres(ctx)
	})
}

// cached serves key from the cache when fresh. Errors, including not found,
// are never stored.
func cached[T any](c *CachingDirectory, key string, load func() (T, error)) (T, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		if value, ok := entry.value.(T); ok {
			metrics.ReferenceCacheLookups.WithLabelValues("memory", "hit").Inc()
			return value, nil
		}
	}
	metrics.ReferenceCacheLookups.WithLabelValues("memory", "miss").Inc()

	value, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	c.items[key] = cacheEntry{value: value, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return value, nil
}

var _ Directory = (*CachingDirectory)(nil)
