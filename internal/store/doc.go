// Package store defines interfaces for data persistence operations.
//
// The scheduler consumes cards, collections, memory-state records and
// review-log entries through these interfaces. Backends live under
// internal/platform (sqlite and postgres); both map their native errors
// onto the sentinels declared here so callers only ever test with errors.Is.
package store
