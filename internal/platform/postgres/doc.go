// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, using the pgx
// database/sql driver. Schema migrations are embedded and applied with goose.
//
// Tests touching a live database carry the integration build tag and read
// DATABASE_URL.
package postgres
