package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// collectionArg turns an optional collection filter into a query argument;
// nil binds NULL and disables the filter.
func collectionArg(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

// limitArg binds NULL for a non-positive limit; LIMIT NULL returns every row.
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

func toNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}

func fromNullTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}
