package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/store"
)

const cardColumns = `c.id, c.collection_id, c.front, c.back, c.created_at, c.updated_at`

// SQLiteCardStore implements store.CardStore on SQLite.
type SQLiteCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSQLiteCardStore creates a card store over a connection or transaction.
// If logger is nil, a default logger will be used.
func NewSQLiteCardStore(db store.DBTX, logger *slog.Logger) *SQLiteCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*SQLiteCardStore)(nil)

// WithTxCardStore implements store.CardStore.
func (s *SQLiteCardStore) WithTxCardStore(tx *sql.Tx) store.CardStore {
	return &SQLiteCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.
func (s *SQLiteCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (id, collection_id, front, back, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		card.ID, card.CollectionID, card.Front, card.Back,
		toNanos(card.CreatedAt), toNanos(card.UpdatedAt),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrCollectionNotFound
		}
		log.Error("failed to insert card", slog.String("card_id", card.ID.String()), slog.Any("error", err))
		return fmt.Errorf("failed to insert card: %w", MapError(err))
	}
	return nil
}

// GetByID implements store.CardStore.
func (s *SQLiteCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards c WHERE c.id = ?`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", MapError(err))
	}
	return card, nil
}

// Delete implements store.CardStore.
func (s *SQLiteCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, q := range []string{
		`DELETE FROM review_logs WHERE card_id = ?`,
		`DELETE FROM memory_states WHERE card_id = ?`,
	} {
		if _, err := s.db.ExecContext(ctx, q, id); err != nil {
			log.Error("failed to delete card dependents", slog.String("card_id", id.String()), slog.Any("error", err))
			return fmt.Errorf("failed to delete card dependents: %w", MapError(err))
		}
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", MapError(err))
	}
	return store.CheckRowsAffected(result, store.ErrCardNotFound)
}

// DetachCollection implements store.CardStore.
func (s *SQLiteCardStore) DetachCollection(ctx context.Context, collectionID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET collection_id = NULL, updated_at = ? WHERE collection_id = ?`,
		toNanos(time.Now()), collectionID)
	if err != nil {
		return 0, fmt.Errorf("failed to detach cards: %w", MapError(err))
	}
	return store.RowsAffected(result)
}

// DeleteByCollection implements store.CardStore.
func (s *SQLiteCardStore) DeleteByCollection(ctx context.Context, collectionID uuid.UUID) (int, error) {
	for _, q := range []string{
		`DELETE FROM review_logs WHERE card_id IN (SELECT id FROM cards WHERE collection_id = ?)`,
		`DELETE FROM memory_states WHERE card_id IN (SELECT id FROM cards WHERE collection_id = ?)`,
	} {
		if _, err := s.db.ExecContext(ctx, q, collectionID); err != nil {
			return 0, fmt.Errorf("failed to delete collection card dependents: %w", MapError(err))
		}
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE collection_id = ?`, collectionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete collection cards: %w", MapError(err))
	}
	return store.RowsAffected(result)
}

// FetchDue implements store.CardStore.
func (s *SQLiteCardStore) FetchDue(
	ctx context.Context,
	collectionID *uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	coll := collectionArg(collectionID)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		JOIN memory_states m ON m.card_id = c.id
		WHERE m.stage IN (?, ?)
		  AND m.due_at <= ?
		  AND (? IS NULL OR c.collection_id = ?)
		ORDER BY m.due_at ASC, c.id ASC
		LIMIT ?`,
		domain.StageReview, domain.StageRelearning, toNanos(now), coll, coll, limitArg(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due cards: %w", MapError(err))
	}
	return s.collectCards(ctx, rows)
}

// FetchForCram implements store.CardStore.
func (s *SQLiteCardStore) FetchForCram(
	ctx context.Context,
	collectionID *uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	coll := collectionArg(collectionID)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		LEFT JOIN memory_states m ON m.card_id = c.id
		WHERE (? IS NULL OR c.collection_id = ?)
		ORDER BY CASE WHEN m.card_id IS NULL OR m.stage = ? THEN 0 ELSE m.stability END ASC,
		         c.created_at ASC, c.id ASC
		LIMIT ?`,
		coll, coll, domain.StageNew, limitArg(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cram cards: %w", MapError(err))
	}
	return s.collectCards(ctx, rows)
}

// CountDue implements store.CardStore.
func (s *SQLiteCardStore) CountDue(ctx context.Context, collectionID *uuid.UUID, now time.Time) (int, error) {
	coll := collectionArg(collectionID)
	return s.count(ctx, "due", `
		SELECT COUNT(*)
		FROM cards c
		JOIN memory_states m ON m.card_id = c.id
		WHERE m.stage IN (?, ?)
		  AND m.due_at <= ?
		  AND (? IS NULL OR c.collection_id = ?)`,
		domain.StageReview, domain.StageRelearning, toNanos(now), coll, coll,
	)
}

// CountNew implements store.CardStore.
func (s *SQLiteCardStore) CountNew(ctx context.Context, collectionID *uuid.UUID) (int, error) {
	coll := collectionArg(collectionID)
	return s.count(ctx, "new", `
		SELECT COUNT(*)
		FROM cards c
		LEFT JOIN memory_states m ON m.card_id = c.id
		WHERE (m.card_id IS NULL OR m.stage = ?)
		  AND (? IS NULL OR c.collection_id = ?)`,
		domain.StageNew, coll, coll,
	)
}

// CountTotal implements store.CardStore.
func (s *SQLiteCardStore) CountTotal(ctx context.Context, collectionID *uuid.UUID) (int, error) {
	coll := collectionArg(collectionID)
	return s.count(ctx, "total",
		`SELECT COUNT(*) FROM cards c WHERE (? IS NULL OR c.collection_id = ?)`,
		coll, coll,
	)
}

func (s *SQLiteCardStore) count(ctx context.Context, what, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count cards",
			slog.String("count", what), slog.Any("error", err))
		return 0, fmt.Errorf("failed to count %s cards: %w", what, MapError(err))
	}
	return n, nil
}

func (s *SQLiteCardStore) collectCards(ctx context.Context, rows *sql.Rows) ([]*domain.Card, error) {
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to scan card row", slog.Any("error", err))
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card               domain.Card
		createdAt, updated int64
	)
	if err := row.Scan(&card.ID, &card.CollectionID, &card.Front, &card.Back, &createdAt, &updated); err != nil {
		return nil, err
	}
	card.CreatedAt = fromNanos(createdAt)
	card.UpdatedAt = fromNanos(updated)
	return &card, nil
}
