package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/store"
)

const reviewLogColumns = `r.id, r.card_id, r.rating, r.mode, r.reviewed_at, r.scheduled_days, r.elapsed_days, r.stage`

// SQLiteReviewLogStore implements store.ReviewLogStore on SQLite.
type SQLiteReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteReviewLogStore creates a review-log store over a connection or transaction.
func NewSQLiteReviewLogStore(db store.DBTX, logger *slog.Logger) *SQLiteReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

var _ store.ReviewLogStore = (*SQLiteReviewLogStore)(nil)

// WithTxReviewLogStore implements store.ReviewLogStore.
func (s *SQLiteReviewLogStore) WithTxReviewLogStore(tx *sql.Tx) store.ReviewLogStore {
	return &SQLiteReviewLogStore{db: tx, logger: s.logger}
}

// Append implements store.ReviewLogStore.
func (s *SQLiteReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLogEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_logs (id, card_id, rating, mode, reviewed_at, scheduled_days, elapsed_days, stage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(), entry.CardID, int(entry.Rating), string(entry.Mode),
		toNanos(entry.ReviewedAt), entry.ScheduledDays, entry.ElapsedDays, entry.Stage,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrCardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to append review log",
			slog.String("card_id", entry.CardID.String()), slog.Any("error", err))
		return fmt.Errorf("failed to append review log: %w", MapError(err))
	}
	return nil
}

// ListByCard implements store.ReviewLogStore.
func (s *SQLiteReviewLogStore) ListByCard(ctx context.Context, cardID uuid.UUID) ([]domain.ReviewLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reviewLogColumns+`
		FROM review_logs r
		WHERE r.card_id = ?
		ORDER BY r.reviewed_at ASC, r.id ASC`, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review logs: %w", MapError(err))
	}
	return s.collect(ctx, rows)
}

// ListByCollection implements store.ReviewLogStore.
func (s *SQLiteReviewLogStore) ListByCollection(
	ctx context.Context,
	collectionID *uuid.UUID,
) ([]domain.ReviewLogEntry, error) {
	coll := collectionArg(collectionID)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reviewLogColumns+`
		FROM review_logs r
		JOIN cards c ON c.id = r.card_id
		WHERE (? IS NULL OR c.collection_id = ?)
		ORDER BY c.created_at ASC, c.id ASC, r.reviewed_at ASC, r.id ASC`, coll, coll)
	if err != nil {
		return nil, fmt.Errorf("failed to list review logs: %w", MapError(err))
	}
	return s.collect(ctx, rows)
}

// CountByCard implements store.ReviewLogStore.
func (s *SQLiteReviewLogStore) CountByCard(ctx context.Context, cardID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_logs WHERE card_id = ?`, cardID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count review logs: %w", MapError(err))
	}
	return n, nil
}

func (s *SQLiteReviewLogStore) collect(ctx context.Context, rows *sql.Rows) ([]domain.ReviewLogEntry, error) {
	defer func() { _ = rows.Close() }()

	entries := make([]domain.ReviewLogEntry, 0)
	for rows.Next() {
		var (
			e          domain.ReviewLogEntry
			id, mode   string
			reviewedAt int64
		)
		if err := rows.Scan(&id, &e.CardID, &e.Rating, &mode, &reviewedAt,
			&e.ScheduledDays, &e.ElapsedDays, &e.Stage); err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to scan review log row", slog.Any("error", err))
			return nil, fmt.Errorf("failed to scan review log row: %w", err)
		}
		parsed, err := ulid.ParseStrict(id)
		if err != nil {
			return nil, fmt.Errorf("invalid review log id %q: %w", id, err)
		}
		e.ID = parsed
		e.Mode = domain.ReviewMode(mode)
		e.ReviewedAt = fromNanos(reviewedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review log rows: %w", err)
	}
	return entries, nil
}
