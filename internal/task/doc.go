// Package task provides the single writer that serializes every mutation of
// memory-model records, review logs, catalog rows and cached statistics.
// Reads never go through it.
package task
