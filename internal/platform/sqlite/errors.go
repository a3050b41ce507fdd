package sqlite

import (
	"errors"
	"strings"

	"github.com/phrazzld/scry-srs/internal/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var violationCodes = map[int]store.Violation{
	sqlite3.SQLITE_CONSTRAINT_UNIQUE:     store.UniqueViolation,
	sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY: store.UniqueViolation,
	sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY: store.ForeignKeyViolation,
	sqlite3.SQLITE_CONSTRAINT_CHECK:      store.CheckViolation,
	sqlite3.SQLITE_CONSTRAINT_NOTNULL:    store.NotNullViolation,
}

var violationMessages = []struct {
	prefix string
	kind   store.Violation
}{
	{"UNIQUE constraint failed", store.UniqueViolation},
	{"FOREIGN KEY constraint failed", store.ForeignKeyViolation},
	{"CHECK constraint failed", store.CheckViolation},
	{"NOT NULL constraint failed", store.NotNullViolation},
}

// violation classifies a SQLite constraint failure. Extended result codes
// are checked first; the message covers builds that only report the primary
// SQLITE_CONSTRAINT code.
func violation(err error) store.Violation {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return store.NoViolation
	}
	if v, ok := violationCodes[sqliteErr.Code()]; ok {
		return v
	}
	msg := sqliteErr.Error()
	for _, m := range violationMessages {
		if strings.Contains(msg, m.prefix) {
			return m.kind
		}
	}
	return store.NoViolation
}

// MapError maps a SQLite error to the matching store sentinel.
func MapError(err error) error {
	return store.MapBackendError(err, violation(err), "")
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY violation.
func IsUniqueViolation(err error) bool {
	return violation(err) == store.UniqueViolation
}

// IsForeignKeyViolation reports whether err is a FOREIGN KEY violation.
func IsForeignKeyViolation(err error) bool {
	return violation(err) == store.ForeignKeyViolation
}
