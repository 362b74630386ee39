package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inflight/internal/adapters/out/postgres"

	"gorm.io/gorm"
)

// OpenDatabase connects to the configured store, migrates the schema and
// optionally seeds the sample catalog.
func OpenDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, error) {
	opts := postgres.Options{
		Driver:        cfg.DBDriver,
		SQLDriver:     cfg.DBSQLDriver,
		SQLitePath:    cfg.SQLitePath,
		SlowThreshold: 200 * time.Millisecond,
		Logger:        logger,
	}
	if cfg.DBDriver == postgres.DriverPostgres {
		opts.DSN = cfg.PostgresDSN()
	}

	db, err := postgres.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err = postgres.Migrate(db); err != nil {
		return nil, err
	}

	if cfg.SeedSampleData {
		n, err := postgres.SeedSampleCatalog(ctx, db)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			logger.InfoContext(ctx, "sample catalog seeded", "items", n)
		}
	}
	return db, nil
}
