package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/store"
)

// PostgresCollectionStore implements store.CollectionStore on PostgreSQL.
type PostgresCollectionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCollectionStore creates a collection store over a connection or transaction.
func NewPostgresCollectionStore(db store.DBTX, logger *slog.Logger) *PostgresCollectionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCollectionStore{
		db:     db,
		logger: logger.With(slog.String("component", "collection_store")),
	}
}

var _ store.CollectionStore = (*PostgresCollectionStore)(nil)

// WithTxCollectionStore implements store.CollectionStore.
func (s *PostgresCollectionStore) WithTxCollectionStore(tx *sql.Tx) store.CollectionStore {
	return &PostgresCollectionStore{db: tx, logger: s.logger}
}

// Create implements store.CollectionStore.
func (s *PostgresCollectionStore) Create(ctx context.Context, collection *domain.Collection) error {
	if err := collection.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`,
		collection.ID, collection.Name, collection.CreatedAt.UTC(), collection.UpdatedAt.UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrCollectionExists
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert collection",
			slog.String("collection_id", collection.ID.String()), slog.Any("error", err))
		return fmt.Errorf("failed to insert collection: %w", MapError(err))
	}
	return nil
}

// GetByID implements store.CollectionStore.
func (s *PostgresCollectionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM collections WHERE id = $1`, id)
	collection, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCollectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", MapError(err))
	}
	return collection, nil
}

// List implements store.CollectionStore.
func (s *PostgresCollectionStore) List(ctx context.Context) ([]*domain.Collection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM collections ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	collections := make([]*domain.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collection rows: %w", err)
	}
	return collections, nil
}

// Delete implements store.CollectionStore.
func (s *PostgresCollectionStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete collection",
			slog.String("collection_id", id.String()), slog.Any("error", err))
		return fmt.Errorf("failed to delete collection: %w", MapError(err))
	}
	return store.CheckRowsAffected(result, store.ErrCollectionNotFound)
}

func scanCollection(row rowScanner) (*domain.Collection, error) {
	var c domain.Collection
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}
