// Package testdb opens throwaway databases for tests: a migrated SQLite file
// per test, and a migrated PostgreSQL container for integration suites.
package testdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"inflight/internal/adapters/out/postgres"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// NewSQLite returns a migrated SQLite database in t.TempDir().
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := postgres.Open(postgres.Options{
		Driver:     postgres.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "inflight.db"),
	})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewSeededSQLite is NewSQLite with the sample catalog loaded.
func NewSeededSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db := NewSQLite(t)
	_, err := postgres.SeedSampleCatalog(context.Background(), db)
	require.NoError(t, err)
	return db
}

// PostgresContainer starts a disposable PostgreSQL server and returns its DSN.
func PostgresContainer(ctx context.Context) (*tcpostgres.PostgresContainer, string, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", err
	}
	return container, dsn, nil
}
