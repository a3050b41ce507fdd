package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
)

// ReviewLogStore persists the append-only review history.
type ReviewLogStore interface {
	// Append stores a new entry. Entries are never updated.
	Append(ctx context.Context, entry *domain.ReviewLogEntry) error

	// ListByCard returns the entries of one card ordered by reviewed_at, then ID.
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error)

	// ListByCollection returns the entries of every card in the collection
	// (all cards when collectionID is nil), ordered by card creation, then
	// reviewed_at, then ID.
	ListByCollection(ctx context.Context, collectionID *uuid.UUID) ([]domain.ReviewLogEntry, error)

	// CountByCard returns the number of entries of one card.
	CountByCard(ctx context.Context, cardID uuid.UUID) (int, error)

	// WithTxReviewLogStore returns a ReviewLogStore bound to tx.
	WithTxReviewLogStore(tx *sql.Tx) ReviewLogStore
}
