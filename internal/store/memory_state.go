package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
)

// MemoryStateStore persists the forgetting-curve record of each card.
//
// Only the scheduler's commit path writes through this interface.
type MemoryStateStore interface {
	// Get returns the record of a card.
	// Returns ErrMemoryStateNotFound if the card has never been reviewed.
	Get(ctx context.Context, cardID uuid.UUID) (*domain.MemoryState, error)

	// Upsert inserts the record or replaces every mutable column of an
	// existing one. CreatedAt of an existing record is preserved.
	Upsert(ctx context.Context, state *domain.MemoryState) error

	// WithTxMemoryStateStore returns a MemoryStateStore bound to tx.
	WithTxMemoryStateStore(tx *sql.Tx) MemoryStateStore
}
