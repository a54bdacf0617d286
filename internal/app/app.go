package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/filmorate/backend/internal/cache"
	"github.com/filmorate/backend/internal/config"
	"github.com/filmorate/backend/internal/db"
	"github.com/filmorate/backend/internal/export"
	"github.com/filmorate/backend/internal/handlers"
	"github.com/filmorate/backend/internal/httpserver"
	"github.com/filmorate/backend/internal/logging"
	"github.com/filmorate/backend/internal/middleware"
	"github.com/filmorate/backend/internal/storage"
)

// CLI describes the filmorate command line.
type CLI struct {
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP API."`
	Migrate MigrateCmd `cmd:"" help:"Apply, inspect or roll back database migrations."`
	Seed    SeedCmd    `cmd:"" help:"Apply a named SQL seed file."`
	Export  ExportCmd  `cmd:"" help:"Upload a JSON snapshot of the catalog to object storage."`
}

// ServeCmd runs the HTTP API.
type ServeCmd struct{}

// MigrateCmd manages schema migrations.
type MigrateCmd struct {
	Action string `arg:"" optional:"" default:"up" enum:"up,status,down" help:"One of up, status or down."`
}

// SeedCmd applies a seed file from the seeds directory.
type SeedCmd struct {
	Name string `arg:"" help:"Seed name, e.g. dev for dev_seed.sql."`
}

// ExportCmd uploads a catalog snapshot.
type ExportCmd struct {
	Key string `help:"Object key for the snapshot. Defaults to a timestamped key under exports/."`
}

// Run bootstraps the Filmorate backend application.
func Run(ctx context.Context, args []string) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("filmorate"),
		kong.Description("Filmorate film catalog service."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	return kctx.Run(cfg, logger)
}

// Run serves HTTP traffic until ctx is canceled or a termination signal arrives.
func (c *ServeCmd) Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	var pool db.Pool
	if cfg.DatabaseURL != "" {
		pgPool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pgPool.Close()
		pool = pgPool
	} else {
		logger.Warn("FILMORATE_DATABASE_URL not set, using in-memory store")
	}

	var client redis.Cmdable
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, using in-process reference cache", slog.Any("error", err))
		} else {
			defer redisClient.Close()
			client = redisClient
		}
	}

	deps := buildDependencies(buildCatalog(pool, client, cfg), pool, client, cfg)

	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(logger), middleware.Metrics)
	handlers.RegisterRoutes(router, deps)

	srv := httpserver.New(cfg.AppPort, router)

	logger.Info("starting http server", slog.Int("port", cfg.AppPort))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// Run applies the requested migration action.
func (c *MigrateCmd) Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	return runMigrations(ctx, cfg, logger, c.Action)
}

// Run applies the named seed.
func (c *SeedCmd) Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	return runSeed(ctx, cfg, logger, c.Name)
}

// Run exports the PostgreSQL catalog to the configured bucket.
func (c *ExportCmd) Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if cfg.DatabaseURL == "" {
		return errors.New("FILMORATE_DATABASE_URL is required to export the catalog")
	}

	store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	now := time.Now()
	key := c.Key
	if key == "" {
		key = export.DefaultKey(now)
	}

	ctx = logging.WithLogger(ctx, logger)
	location, err := export.Publish(ctx, buildCatalog(pool, nil, cfg), store, key, now)
	if err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}

	fmt.Println(location)
	return nil
}
