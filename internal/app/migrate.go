package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmorate/backend/internal/config"
	"github.com/filmorate/backend/internal/db"
)

const (
	migrationMaxRetries  = 3
	migrationBaseBackoff = 100 * time.Millisecond
	migrationMaxBackoff  = 3 * time.Second

	downSuffix = ".down.sql"
)

var retryablePgErrorCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
}

// migrationSet holds the forward migrations in apply order and the optional
// rollback script for each of them.
type migrationSet struct {
	up   []string
	down map[string]string
}

func resolveDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	return filepath.Join(wd, dir), nil
}

// listMigrations reads dir for NNNN_name.sql files and their NNNN_name.down.sql
// counterparts.
func listMigrations(dir string) (migrationSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return migrationSet{}, fmt.Errorf("read migrations directory: %w", err)
	}

	set := migrationSet{down: make(map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, downSuffix) {
			set.down[strings.TrimSuffix(name, downSuffix)+".sql"] = name
			continue
		}
		set.up = append(set.up, name)
	}

	sort.Strings(set.up)
	return set, nil
}

func runMigrations(ctx context.Context, cfg config.Config, logger *slog.Logger, command string) error {
	if cfg.DatabaseURL == "" {
		return errors.New("FILMORATE_DATABASE_URL is required to run migrations")
	}

	migrationDir, err := resolveDir(cfg.MigrationDir)
	if err != nil {
		return err
	}
	migrations, err := listMigrations(migrationDir)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
                version TEXT PRIMARY KEY,
                applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return err
	}

	switch command {
	case "status":
		for _, name := range migrations.up {
			if _, ok := applied[name]; ok {
				fmt.Printf("[x] %s\n", name)
			} else {
				fmt.Printf("[ ] %s\n", name)
			}
		}
		return nil
	case "up", "":
		pending := 0
		for _, name := range migrations.up {
			if _, ok := applied[name]; ok {
				continue
			}
			pending++

			contents, err := os.ReadFile(filepath.Join(migrationDir, name))
			if err != nil {
				return fmt.Errorf("read migration %s: %w", name, err)
			}

			record := func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name)
				return err
			}
			if err := applyMigrationWithRetry(ctx, logger, conn, name, string(contents), record); err != nil {
				return err
			}
			logger.Info("applied migration", slog.String("migration", name))
		}
		if pending == 0 {
			logger.Info("no migrations to apply")
		}
		return nil
	case "down":
		name := latestApplied(migrations.up, applied)
		if name == "" {
			logger.Info("no migrations to roll back")
			return nil
		}
		downName, ok := migrations.down[name]
		if !ok {
			return fmt.Errorf("migration %s has no %s rollback script", name, downSuffix)
		}

		contents, err := os.ReadFile(filepath.Join(migrationDir, downName))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", downName, err)
		}

		forget := func(ctx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, name)
			return err
		}
		if err := applyMigrationWithRetry(ctx, logger, conn, downName, string(contents), forget); err != nil {
			return err
		}
		logger.Info("rolled back migration", slog.String("migration", name))
		return nil
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

func appliedMigrations(ctx context.Context, conn *pgxpool.Conn) (map[string]struct{}, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("fetch applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		applied[version] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}
	return applied, nil
}

// latestApplied returns the last migration in apply order that has been applied.
func latestApplied(ordered []string, applied map[string]struct{}) string {
	for i := len(ordered) - 1; i >= 0; i-- {
		if _, ok := applied[ordered[i]]; ok {
			return ordered[i]
		}
	}
	return ""
}

// seedFileName maps a seed name such as "dev" onto its file name.
func seedFileName(name string) string {
	if strings.HasSuffix(name, ".sql") {
		return name
	}
	return fmt.Sprintf("%s_seed.sql", name)
}

func runSeed(ctx context.Context, cfg config.Config, logger *slog.Logger, name string) error {
	if cfg.DatabaseURL == "" {
		return errors.New("FILMORATE_DATABASE_URL is required to apply seeds")
	}

	seedDir, err := resolveDir(cfg.SeedDir)
	if err != nil {
		return err
	}

	seedName := seedFileName(name)
	contents, err := os.ReadFile(filepath.Join(seedDir, seedName))
	if err != nil {
		return fmt.Errorf("read seed %s: %w", seedName, err)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, string(contents)); err != nil {
		return fmt.Errorf("apply seed %s: %w", seedName, err)
	}

	logger.Info("applied seed", slog.String("seed", seedName))
	return nil
}

func migrationBackoff(attempt int) time.Duration {
	backoff := time.Duration(math.Pow(2, float64(attempt-1))) * migrationBaseBackoff
	if backoff > migrationMaxBackoff {
		backoff = migrationMaxBackoff
	}
	return backoff
}

// applyMigrationWithRetry runs contents and the bookkeeping step in one
// serializable transaction, retrying transient failures with backoff.
func applyMigrationWithRetry(ctx context.Context, logger *slog.Logger, conn *pgxpool.Conn, name, contents string, bookkeep func(context.Context, pgx.Tx) error) error {
	var attempt int
	for attempt = 0; attempt < migrationMaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(migrationBackoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			timer.Stop()
		}

		retry := func(stage string, err error) bool {
			if shouldRetryMigration(err) && attempt < migrationMaxRetries-1 {
				logger.Warn("transient migration error",
					slog.String("migration", name),
					slog.String("stage", stage),
					slog.Int("attempt", attempt+1),
					slog.Int("maxAttempts", migrationMaxRetries),
					slog.Any("error", err),
				)
				return true
			}
			return false
		}

		tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return fmt.Errorf("begin migration transaction for %s: %w", name, err)
		}

		if _, err := tx.Exec(ctx, contents); err != nil {
			_ = tx.Rollback(ctx)
			if retry("apply", err) {
				continue
			}
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if err := bookkeep(ctx, tx); err != nil {
			_ = tx.Rollback(ctx)
			if retry("record", err) {
				continue
			}
			return fmt.Errorf("record migration %s: %w", name, err)
		}

		if err := tx.Commit(ctx); err != nil {
			_ = tx.Rollback(ctx)
			if retry("commit", err) {
				continue
			}
			return fmt.Errorf("commit migration %s: %w", name, err)
		}

		return nil
	}

	return fmt.Errorf("apply migration %s: exceeded max retries (%d)", name, attempt)
}

func shouldRetryMigration(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := retryablePgErrorCodes[pgErr.Code]; ok {
			return true
		}
	}

	return errors.Is(err, pgx.ErrTxClosed)
}
