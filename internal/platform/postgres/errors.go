package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-srs/internal/store"
)

// SQLSTATE codes of the integrity-constraint class.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

var violationCodes = map[string]store.Violation{
	uniqueViolationCode:     store.UniqueViolation,
	foreignKeyViolationCode: store.ForeignKeyViolation,
	checkViolationCode:      store.CheckViolation,
	notNullViolationCode:    store.NotNullViolation,
}

// violation classifies err and names the offending constraint or column.
func violation(err error) (store.Violation, string) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return store.NoViolation, ""
	}
	detail := pgErr.ConstraintName
	if detail == "" {
		detail = pgErr.ColumnName
	}
	return violationCodes[pgErr.Code], detail
}

// MapError maps a PostgreSQL error to the matching store sentinel.
func MapError(err error) error {
	v, detail := violation(err)
	return store.MapBackendError(err, v, detail)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	v, _ := violation(err)
	return v == store.UniqueViolation
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	v, _ := violation(err)
	return v == store.ForeignKeyViolation
}
