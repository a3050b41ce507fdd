package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
)

// CollectionStore defines the interface for collection persistence.
type CollectionStore interface {
	// Create saves a new collection.
	// Returns ErrCollectionExists if the ID is already taken.
	Create(ctx context.Context, collection *domain.Collection) error

	// GetByID retrieves a collection by ID.
	// Returns ErrCollectionNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error)

	// List returns every collection ordered by name, then ID.
	List(ctx context.Context) ([]*domain.Collection, error)

	// Delete removes the collection row only. Cards must be detached or
	// deleted first; see CardStore.DetachCollection and DeleteByCollection.
	// Returns ErrCollectionNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTxCollectionStore returns a CollectionStore bound to tx.
	WithTxCollectionStore(tx *sql.Tx) CollectionStore
}
