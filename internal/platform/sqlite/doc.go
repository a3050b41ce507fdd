// Package sqlite is the embedded store backend built on modernc.org/sqlite.
//
// Timestamps are stored as INTEGER unix nanoseconds in UTC so that range
// predicates and ORDER BY compare numerically. UUIDs and review-log ULIDs
// are stored as TEXT; the canonical ULID string sorts like its binary form.
// Every connection enables WAL, a busy timeout and foreign keys through DSN
// pragmas.
package sqlite
