package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the Filmorate backend service.
type Config struct {
	AppPort           int
	DatabaseURL       string
	MigrationDir      string
	SeedDir           string
	LogLevel          string
	ReferenceCacheTTL time.Duration
	PopularDefault    int
	RateLimit         RateLimitConfig
	Redis             RedisConfig
	ObjectStore       ObjectStoreConfig
}

// RateLimitConfig bounds mutating requests per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// RedisConfig locates the optional Redis reference cache. An empty Addr
// disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// ObjectStoreConfig describes the bucket catalog exports are uploaded to.
type ObjectStoreConfig struct {
	Bucket        string
	Endpoint      string
	Region        string
	PublicBaseURL string
}

// Load reads configuration from environment variables, applying defaults for
// local development. Variables from .env.local are loaded first when the file
// exists; variables already set in the environment take precedence.
func Load() (Config, error) {
	if err := godotenv.Load(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		AppPort:           getInt("FILMORATE_PORT", 8080),
		DatabaseURL:       getString("FILMORATE_DATABASE_URL", ""),
		MigrationDir:      getString("FILMORATE_MIGRATIONS", "migrations"),
		SeedDir:           getString("FILMORATE_SEEDS", "seeds"),
		LogLevel:          getString("FILMORATE_LOG_LEVEL", "info"),
		ReferenceCacheTTL: getDuration("FILMORATE_REFERENCE_CACHE_TTL", 15*time.Minute),
		PopularDefault:    getInt("FILMORATE_POPULAR_DEFAULT", 10),
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getFloat("FILMORATE_RATE_LIMIT_RPS", 5),
			Burst:             getInt("FILMORATE_RATE_LIMIT_BURST", 10),
		},
		Redis: RedisConfig{
			Addr:     getString("FILMORATE_REDIS_ADDR", ""),
			Password: getString("FILMORATE_REDIS_PASSWORD", ""),
			DB:       getInt("FILMORATE_REDIS_DB", 0),
		},
		ObjectStore: ObjectStoreConfig{
			Bucket:        getString("FILMORATE_S3_BUCKET", ""),
			Endpoint:      getString("FILMORATE_S3_ENDPOINT", ""),
			Region:        getString("FILMORATE_S3_REGION", "us-east-1"),
			PublicBaseURL: getString("FILMORATE_S3_PUBLIC_URL", ""),
		},
	}

	if cfg.AppPort <= 0 || cfg.AppPort > 65535 {
		return Config{}, errors.New("FILMORATE_PORT must be between 1 and 65535")
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
