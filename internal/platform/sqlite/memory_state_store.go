package sqlite

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

// SQLiteMemoryStateStore implements store.MemoryStateStore on SQLite.
type SQLiteMemoryStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteMemoryStateStore creates a memory-state store over a connection or transaction.
func NewSQLiteMemoryStateStore(db store.DBTX, logger *slog.Logger) *SQLiteMemoryStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteMemoryStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "memory_state_store")),
	}
}

var _ store.MemoryStateStore = (*SQLiteMemoryStateStore)(nil)

// WithTxMemoryStateStore implements store.MemoryStateStore.
func (s *SQLiteMemoryStateStore) WithTxMemoryStateStore(tx *sql.Tx) store.MemoryStateStore {
	return &SQLiteMemoryStateStore{db: tx, logger: s.logger}
}

// Get implements store.MemoryStateStore.
func (s *SQLiteMemoryStateStore) Get(ctx context.Context, cardID uuid.UUID) (*domain.MemoryState, error) {
	var (
		m                           domain.MemoryState
		dueAt, createdAt, updatedAt int64
		lastReviewedAt              sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT card_id, stability, difficulty, retrievability, due_at, last_reviewed_at,
		       stage, total_reviews, total_lapses, created_at, updated_at
		FROM memory_states
		WHERE card_id = ?`, cardID,
	).Scan(
		&m.CardID, &m.Stability, &m.Difficulty, &m.Retrievability, &dueAt, &lastReviewedAt,
		&m.Stage, &m.TotalReviews, &m.TotalLapses, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrMemoryStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory state: %w", MapError(err))
	}

	m.DueAt = fromNanos(dueAt)
	m.LastReviewedAt = fromNullNanos(lastReviewedAt)
	m.CreatedAt = fromNanos(createdAt)
	m.UpdatedAt = fromNanos(updatedAt)
	return &m, nil
}

// Upsert implements store.MemoryStateStore.
func (s *SQLiteMemoryStateStore) Upsert(ctx context.Context, state *domain.MemoryState) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memory_states (
			card_id, stability, difficulty, retrievability, due_at, last_reviewed_at,
			stage, total_reviews, total_lapses, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (card_id) DO UPDATE SET
			stability        = excluded.stability,
			difficulty       = excluded.difficulty,
			retrievability   = excluded.retrievability,
			due_at           = excluded.due_at,
			last_reviewed_at = excluded.last_reviewed_at,
			stage            = excluded.stage,
			total_reviews    = excluded.total_reviews,
			total_lapses     = excluded.total_lapses,
			updated_at       = excluded.updated_at`,
		state.CardID, state.Stability, state.Difficulty, state.Retrievability,
		toNanos(state.DueAt), toNullNanos(state.LastReviewedAt),
		state.Stage, state.TotalReviews, state.TotalLapses,
		toNanos(state.CreatedAt), toNanos(state.UpdatedAt),
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
