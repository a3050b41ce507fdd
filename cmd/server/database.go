package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-srs/internal/config"
	"github.com/phrazzld/scry-srs/internal/platform/postgres"
	"github.com/phrazzld/scry-srs/internal/platform/sqlite"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/pressly/goose/v3"
)

// openDatabase opens the configured backend.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.URL, cfg.MaxOpenConns, logger)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.URL, cfg.MaxOpenConns, logger)
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// migrateDatabase applies the backend's pending migrations.
func migrateDatabase(ctx context.Context, driver string, db *sql.DB, logger *slog.Logger) error {
	switch driver {
	case config.DriverSQLite:
		return sqlite.Migrate(ctx, db, logger)
	case config.DriverPostgres:
		return postgres.Migrate(ctx, db, logger)
	}
	return fmt.Errorf("unsupported database driver %q", driver)
}

// migrationStatus lists every known migration of the backend.
func migrationStatus(ctx context.Context, driver string, db *sql.DB) ([]*goose.MigrationStatus, error) {
	switch driver {
	case config.DriverSQLite:
		return sqlite.MigrationStatus(ctx, db)
	case config.DriverPostgres:
		return postgres.MigrationStatus(ctx, db)
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// newStores builds the backend's store implementations.
func newStores(driver string, db *sql.DB, logger *slog.Logger) (store.Stores, error) {
	switch driver {
	case config.DriverSQLite:
		return sqlite.NewStores(db, logger), nil
	case config.DriverPostgres:
		return postgres.NewStores(db, logger), nil
	}
	return store.Stores{}, fmt.Errorf("unsupported database driver %q", driver)
}
