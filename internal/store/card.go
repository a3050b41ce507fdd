package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
)

// CardStore defines the interface for card data persistence.
//
// Every collection-scoped method takes an optional collection ID; nil means
// all cards.
type CardStore interface {
	// Create saves a new card.
	// Returns ErrCollectionNotFound if the card references a missing collection.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// Delete removes a card together with its memory state and review log.
	// Returns ErrCardNotFound if the card does not exist.
	// Dependent rows are removed explicitly, so call it inside a transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	// DetachCollection clears the collection of every card in it and
	// returns the number of cards touched.
	DetachCollection(ctx context.Context, collectionID uuid.UUID) (int, error)

	// DeleteByCollection deletes every card in the collection with its
	// memory state and review log, returning the number of cards deleted.
	DeleteByCollection(ctx context.Context, collectionID uuid.UUID) (int, error)

	// FetchDue returns cards whose memory state is in Review or Relearning
	// and due at or before now, ordered by due date ascending.
	FetchDue(ctx context.Context, collectionID *uuid.UUID, now time.Time, limit int) ([]*domain.Card, error)

	// FetchForCram returns cards ordered by stability ascending regardless of
	// due date. Cards without a memory state, or in stage New, count as stability 0.
	// Ties are broken by creation time, then ID.
	FetchForCram(ctx context.Context, collectionID *uuid.UUID, limit int) ([]*domain.Card, error)

	// CountDue counts the cards FetchDue would return without a limit.
	CountDue(ctx context.Context, collectionID *uuid.UUID, now time.Time) (int, error)

	// CountNew counts cards with no memory state or a memory state in stage New.
	CountNew(ctx context.Context, collectionID *uuid.UUID) (int, error)

	// CountTotal counts all cards.
	CountTotal(ctx context.Context, collectionID *uuid.UUID) (int, error)

	// WithTxCardStore returns a new CardStore instance that uses the provided transaction.
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return cardStore.WithTxCardStore(tx).Delete(ctx, id)
	//   })
	WithTxCardStore(tx *sql.Tx) CardStore
}
