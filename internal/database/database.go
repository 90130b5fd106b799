// Package database provides the PostgreSQL connection and migrations used by
// the postgres preference store.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"net/url"
	"os"
	"strings"
	"sync"

	"studyapp/internal/config"
	"studyapp/internal/observability"
	contextutils "studyapp/internal/utils"

	// Import PostgreSQL driver for database/sql
	_ "github.com/lib/pq"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// OpenTelemetry SQL instrumentation
	"go.nhat.io/otelsql"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Manager handles database operations with proper logging
type Manager struct {
	logger *observability.Logger
}

var (
	otelDriverNameCache string
	otelDriverOnce      sync.Once
	otelDriverErr       error
)

// NewManager creates a new database manager with the provided logger
func NewManager(logger *observability.Logger) *Manager {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Manager{
		logger: logger,
	}
}

// DefaultDatabaseConfig returns the default database configuration
func DefaultDatabaseConfig() config.DatabaseConfig {
	cfg := config.DatabaseConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: config.DatabaseConnMaxLifetime,
	}

	// Check for TEST_DATABASE_URL first (for tests)
	if testURL := os.Getenv("TEST_DATABASE_URL"); testURL != "" {
		cfg.URL = testURL
	}

	return cfg
}

// InitDB opens the database and applies every pending migration.
func (dm *Manager) InitDB(ctx context.Context, cfg config.DatabaseConfig) (result0 *sql.DB, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "InitDB",
		attribute.String("db.name", extractDatabaseName(cfg.URL)),
		attribute.String("db.system", "postgresql"),
		attribute.Bool("migrations.enabled", true),
		attribute.Int("db.max_open_conns", cfg.MaxOpenConns),
		attribute.Int("db.max_idle_conns", cfg.MaxIdleConns),
	)
	defer observability.FinishSpan(span, &err)

	db, err := dm.InitDBWithoutMigrations(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := dm.RunMigrations(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			dm.logger.Error(ctx, "Failed to close database after migration failure", closeErr)
		}
		return nil, err
	}

	return db, nil
}

// extractDatabaseName extracts the database name from a PostgreSQL connection string
func extractDatabaseName(databaseURL string) string {
	if u, err := url.Parse(databaseURL); err == nil && u.Path != "" {
		if dbName := strings.TrimPrefix(u.Path, "/"); dbName != "" {
			return dbName
		}
	}
	return "study_db"
}

// InitDBWithoutMigrations opens an instrumented connection pool and pings it.
func (dm *Manager) InitDBWithoutMigrations(ctx context.Context, cfg config.DatabaseConfig) (result0 *sql.DB, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "InitDBWithoutMigrations",
		attribute.String("database.url", contextutils.MaskURLPassword(cfg.URL)),
	)
	defer observability.FinishSpan(span, &err)

	if cfg.URL == "" {
		return nil, contextutils.WrapError(contextutils.ErrMissingRequired, "database url is not configured")
	}

	// Register OpenTelemetry SQL driver once per process and reuse the name
	otelDriverOnce.Do(func() {
		otelDriverNameCache, otelDriverErr = otelsql.Register("postgres",
			otelsql.WithDatabaseName(extractDatabaseName(cfg.URL)),
			otelsql.TraceQueryWithoutArgs(),
			otelsql.WithSystem(semconv.DBSystemPostgreSQL),
			otelsql.TraceRowsAffected(),
		)
	})
	if otelDriverErr != nil {
		return nil, contextutils.WrapError(otelDriverErr, "failed to register otelsql driver")
	}

	db, err := sql.Open(otelDriverNameCache, cfg.URL)
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to open database connection")
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			dm.logger.Error(ctx, "Failed to close database connection after ping failure", closeErr)
		}
		return nil, contextutils.WrapErrorf(contextutils.ErrDatabaseConnection, "failed to ping database: %v", err)
	}

	dm.logger.Info(ctx, "Database connection established", map[string]interface{}{
		"max_open_conns":    cfg.MaxOpenConns,
		"max_idle_conns":    cfg.MaxIdleConns,
		"conn_max_lifetime": cfg.ConnMaxLifetime.String(),
	})

	return db, nil
}

// migrator borrows a single connection from db. Closing the returned
// migrate instance releases that connection and leaves db open.
func (dm *Manager) migrator(ctx context.Context, db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to open embedded migrations")
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrDatabaseConnection, "failed to acquire connection: %v", err)
	}
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return nil, contextutils.WrapError(err, "failed to initialize migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return nil, contextutils.WrapError(err, "failed to initialize golang-migrate")
	}
	return m, nil
}

func (dm *Manager) closeMigrator(ctx context.Context, m *migrate.Migrate) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		dm.logger.Error(ctx, "Error closing migration", errors.Join(srcErr, dbErr))
	}
}

// RunMigrations applies every embedded migration that has not run yet.
func (dm *Manager) RunMigrations(ctx context.Context, db *sql.DB) (err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "RunMigrations",
		attribute.String("db.system", "postgresql"),
		attribute.String("migration.type", "golang_migrate"),
	)
	defer observability.FinishSpan(span, &err)

	m, err := dm.migrator(ctx, db)
	if err != nil {
		return err
	}
	defer dm.closeMigrator(ctx, m)

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		dm.logger.Info(ctx, "No new migrations to apply")
		return nil
	}
	if err != nil {
		return contextutils.WrapError(err, "golang-migrate up failed")
	}
	dm.logger.Info(ctx, "Database migrations applied successfully")
	return nil
}

// MigrationVersion reports the current schema version and whether the last
// migration left the schema dirty.
func (dm *Manager) MigrationVersion(ctx context.Context, db *sql.DB) (version uint, dirty bool, err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "MigrationVersion")
	defer observability.FinishSpan(span, &err)

	m, err := dm.migrator(ctx, db)
	if err != nil {
		return 0, false, err
	}
	defer dm.closeMigrator(ctx, m)
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// MigrateDown rolls back every migration.
func (dm *Manager) MigrateDown(ctx context.Context, db *sql.DB) (err error) {
	ctx, span := observability.TraceDatabaseFunction(ctx, "MigrateDown")
	defer observability.FinishSpan(span, &err)

	m, err := dm.migrator(ctx, db)
	if err != nil {
		return err
	}
	defer dm.closeMigrator(ctx, m)

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return contextutils.WrapError(err, "golang-migrate down failed")
	}
	dm.logger.Info(ctx, "Database migrations rolled back")
	return nil
}
