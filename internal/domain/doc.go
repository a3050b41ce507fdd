// Package domain contains the core entities of the scheduling engine: cards,
// collections, the per-card memory model, review-log entries and the
// aggregate statistics triplet. It has no knowledge of storage or transport.
//
// A card that has never been reviewed has no MemoryState. Call sites receive a
// CardState, which is either Unreviewed or Tracked, and must handle both.
package domain
