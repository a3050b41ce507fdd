// Package scheduler decides which cards are due and commits reviews.
//
// A Scheduler owns the only write path to memory-state records and review
// logs. Every mutation is queued on a task.Writer, runs in one store
// transaction, and invalidates the affected stats-cache entries after the
// commit. Reads go straight to the store and see committed data only.
package scheduler
