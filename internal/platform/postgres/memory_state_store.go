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

// PostgresMemoryStateStore implements store.MemoryStateStore on PostgreSQL.
type PostgresMemoryStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMemoryStateStore creates a memory-state store over a connection or transaction.
func NewPostgresMemoryStateStore(db store.DBTX, logger *slog.Logger) *PostgresMemoryStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresMemoryStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "memory_state_store")),
	}
}

var _ store.MemoryStateStore = (*PostgresMemoryStateStore)(nil)

// WithTxMemoryStateStore implements store.MemoryStateStore.
func (s *PostgresMemoryStateStore) WithTxMemoryStateStore(tx *sql.Tx) store.MemoryStateStore {
	return &PostgresMemoryStateStore{db: tx, logger: s.logger}
}

// Get implements store.MemoryStateStore.
func (s *PostgresMemoryStateStore) Get(ctx context.Context, cardID uuid.UUID) (*domain.MemoryState, error) {
	var (
		m              domain.MemoryState
		lastReviewedAt sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT card_id, stability, difficulty, retrievability, due_at, last_reviewed_at,
		       stage, total_reviews, total_lapses, created_at, updated_at
		FROM memory_states
		WHERE card_id = $1`, cardID,
	).Scan(
		&m.CardID, &m.Stability, &m.Difficulty, &m.Retrievability, &m.DueAt, &lastReviewedAt,
		&m.Stage, &m.TotalReviews, &m.TotalLapses, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrMemoryStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory state: %w", MapError(err))
	}

	m.DueAt = m.DueAt.UTC()
	m.LastReviewedAt = fromNullTime(lastReviewedAt)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}

// Upsert implements store.MemoryStateStore.
func (s *PostgresMemoryStateStore) Upsert(ctx context.Context, state *domain.MemoryState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memory_states (
			card_id, stability, difficulty, retrievability, due_at, last_reviewed_at,
			stage, total_reviews, total_lapses, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (card_id) DO UPDATE SET
			stability        = EXCLUDED.stability,
			difficulty       = EXCLUDED.difficulty,
			retrievability   = EXCLUDED.retrievability,
			due_at           = EXCLUDED.due_at,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			stage            = EXCLUDED.stage,
			total_reviews    = EXCLUDED.total_reviews,
			total_lapses     = EXCLUDED.total_lapses,
			updated_at       = EXCLUDED.updated_at`,
		state.CardID, state.Stability, state.Difficulty, state.Retrievability,
		state.DueAt.UTC(), toNullTime(state.LastReviewedAt),
		state.Stage, state.TotalReviews, state.TotalLapses,
		state.CreatedAt.UTC(), state.UpdatedAt.UTC(),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrCardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to upsert memory state",
			slog.String("card_id", state.CardID.String()), slog.Any("error", err))
		return fmt.Errorf("failed to upsert memory state: %w", MapError(err))
	}
	return nil
}
