package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/filmorate/backend/internal/cache"
	"github.com/filmorate/backend/internal/catalog"
	"github.com/filmorate/backend/internal/config"
	"github.com/filmorate/backend/internal/db"
	"github.com/filmorate/backend/internal/handlers"
	"github.com/filmorate/backend/internal/middleware"
	"github.com/filmorate/backend/internal/repositories"
)

// rateLimiterTTL is how long an idle client keeps its limiter state.
const rateLimiterTTL = 10 * time.Minute

// buildStores selects the persistence backend: PostgreSQL when a pool is
// supplied, otherwise a process-local in-memory store.
func buildStores(pool db.Pool) catalog.Stores {
	if pool == nil {
		mem := repositories.NewMemoryStore()
		return catalog.Stores{
			Films:      mem.Films,
			Users:      mem.Users,
			Friends:    mem.Friends,
			Likes:      mem.Likes,
			References: mem.References,
		}
	}

	return catalog.Stores{
		Films:      repositories.NewPostgresFilmRepository(pool),
		Users:      repositories.NewPostgresUserRepository(pool),
		Friends:    repositories.NewPostgresFriendRepository(pool),
		Likes:      repositories.NewPostgresLikeRepository(pool),
		References: repositories.NewPostgresReferenceRepository(pool),
	}
}

// referenceDirectory puts a cache in front of the reference store: Redis when
// a client is available, otherwise an in-process TTL cache.
func referenceDirectory(base catalog.Directory, client redis.Cmdable, ttl time.Duration) catalog.Directory {
	if client != nil {
		return cache.NewRedisDirectory(base, client, ttl)
	}
	return catalog.NewCachingDirectory(base, ttl)
}

// buildCatalog wires the catalog services over the selected stores.
func buildCatalog(pool db.Pool, client redis.Cmdable, cfg config.Config) *catalog.Catalog {
	stores := buildStores(pool)
	stores.References = referenceDirectory(stores.References, client, cfg.ReferenceCacheTTL)
	return catalog.New(stores)
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(c *catalog.Catalog, pool db.Pool, client redis.Cmdable, cfg config.Config) handlers.Dependencies {
	checks := map[string]handlers.HealthCheck{}
	if pool != nil {
		checks["postgres"] = func(ctx context.Context) error {
			return db.Ping(ctx, pool)
		}
	}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}

	return handlers.Dependencies{
		Films:          c.Films,
		Likes:          c.Likes,
		Users:          c.Users,
		Friends:        c.Friends,
		References:     c.References,
		Limiter:        middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, rateLimiterTTL),
		HealthChecks:   checks,
		PopularDefault: cfg.PopularDefault,
	}
}
