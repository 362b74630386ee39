package postgres

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported values of Options.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported values of Options.SQLDriver for the postgres dialect.
const (
	SQLDriverPgx = "pgx"
	SQLDriverPq  = "postgres"
)

// Options selects and configures the store.
type Options struct {
	Driver string

	// SQLDriver picks the database/sql driver under the postgres dialect:
	// pgx (default) or lib/pq.
	SQLDriver string
	DSN       string

	SQLitePath string

	// SlowThreshold enables slow query warnings when positive.
	SlowThreshold time.Duration
	Logger        *slog.Logger
}

// Open connects to the configured store. Driver errors such as duplicate
// keys are translated into gorm sentinels.
func Open(opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(opts),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	switch opts.Driver {
	case "", DriverPostgres:
		return openPostgres(opts, cfg)
	case DriverSQLite:
		return openSQLite(opts, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func openPostgres(opts Options, cfg *gorm.Config) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}

	pgCfg := pgdriver.Config{DSN: opts.DSN}
	switch opts.SQLDriver {
	case "", SQLDriverPgx:
	case SQLDriverPq:
		pgCfg.DriverName = SQLDriverPq
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", opts.SQLDriver)
	}

	db, err := gorm.Open(pgdriver.New(pgCfg), cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func openSQLite(opts Options, cfg *gorm.Config) (*gorm.DB, error) {
	if opts.SQLitePath == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	dsn := opts.SQLitePath
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_foreign_keys=on&_busy_timeout=5000"

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One writer at a time; a second connection would only see SQLITE_BUSY.
	// A delivery attempt keeps this connection for the duration of its send.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// BuildPostgresDSN assembles a key/value DSN understood by both pgx and lib/pq.
func BuildPostgresDSN(host, port, user, password, dbName, sslMode string) string {
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbName, sslMode,
	)
}

func newGormLogger(opts Options) gormlogger.Interface {
	if opts.Logger == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(slogWriter{logger: opts.Logger.With("component", "gorm")}, gormlogger.Config{
		SlowThreshold:             opts.SlowThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// slogWriter routes gorm's printf style output into the service log.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
