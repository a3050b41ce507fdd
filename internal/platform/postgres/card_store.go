package postgres

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

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTxCardStore implements store.CardStore.WithTxCardStore
func (s *PostgresCardStore) WithTxCardStore(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (id, collection_id, front, back, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		card.ID, card.CollectionID, card.Front, card.Back,
		card.CreatedAt.UTC(), card.UpdatedAt.UTC(),
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

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards c WHERE c.id = $1`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", MapError(err))
	}
	return card, nil
}

// Delete implements store.CardStore.Delete
// Dependent rows are deleted explicitly rather than relying on ON DELETE CASCADE.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, q := range []string{
		`DELETE FROM review_logs WHERE card_id = $1`,
		`DELETE FROM memory_states WHERE card_id = $1`,
	} {
		if _, err := s.db.ExecContext(ctx, q, id); err != nil {
			log.Error("failed to delete card dependents", slog.String("card_id", id.String()), slog.Any("error", err))
			return fmt.Errorf("failed to delete card dependents: %w", MapError(err))
		}
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", MapError(err))
	}
	return store.CheckRowsAffected(result, store.ErrCardNotFound)
}

// DetachCollection implements store.CardStore.DetachCollection
func (s *PostgresCardStore) DetachCollection(ctx context.Context, collectionID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE cards SET collection_id = NULL, updated_at = $1 WHERE collection_id = $2`,
		time.Now().UTC(), collectionID)
	if err != nil {
		return 0, fmt.Errorf("failed to detach cards: %w", MapError(err))
	}
	return store.RowsAffected(result)
}

// DeleteByCollection implements store.CardStore.DeleteByCollection
func (s *PostgresCardStore) DeleteByCollection(ctx context.Context, collectionID uuid.UUID) (int, error) {
	for _, q := range []string{
		`DELETE FROM review_logs WHERE card_id IN (SELECT id FROM cards WHERE collection_id = $1)`,
		`DELETE FROM memory_states WHERE card_id IN (SELECT id FROM cards WHERE collection_id = $1)`,
	} {
		if _, err := s.db.ExecContext(ctx, q, collectionID); err != nil {
			return 0, fmt.Errorf("failed to delete collection card dependents: %w", MapError(err))
		}
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE collection_id = $1`, collectionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete collection cards: %w", MapError(err))
	}
	return store.RowsAffected(result)
}

// FetchDue implements store.CardStore.FetchDue
func (s *PostgresCardStore) FetchDue(
	ctx context.Context,
	collectionID *uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		JOIN memory_states m ON m.card_id = c.id
		WHERE m.stage IN ($1, $2)
		  AND m.due_at <= $3
		  AND ($4::uuid IS NULL OR c.collection_id = $4)
		ORDER BY m.due_at ASC, c.id ASC
		LIMIT $5`,
		domain.StageReview, domain.StageRelearning, now.UTC(), collectionArg(collectionID), limitArg(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due cards: %w", MapError(err))
	}
	return s.collectCards(ctx, rows)
}

// FetchForCram implements store.CardStore.FetchForCram
func (s *PostgresCardStore) FetchForCram(
	ctx context.Context,
	collectionID *uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		LEFT JOIN memory_states m ON m.card_id = c.id
		WHERE ($1::uuid IS NULL OR c.collection_id = $1)
		ORDER BY CASE WHEN m.card_id IS NULL OR m.stage = $2 THEN 0 ELSE m.stability END ASC,
		         c.created_at ASC, c.id ASC
		LIMIT $3`,
		collectionArg(collectionID), domain.StageNew, limitArg(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cram cards: %w", MapError(err))
	}
	return s.collectCards(ctx, rows)
}

// CountDue implements store.CardStore.CountDue
func (s *PostgresCardStore) CountDue(ctx context.Context, collectionID *uuid.UUID, now time.Time) (int, error) {
	return s.count(ctx, "due", `
		SELECT COUNT(*)
		FROM cards c
		JOIN memory_states m ON m.card_id = c.id
		WHERE m.stage IN ($1, $2)
		  AND m.due_at <= $3
		  AND ($4::uuid IS NULL OR c.collection_id = $4)`,
		domain.StageReview, domain.StageRelearning, now.UTC(), collectionArg(collectionID),
	)
}

// CountNew implements store.CardStore.CountNew
func (s *PostgresCardStore) CountNew(ctx context.Context, collectionID *uuid.UUID) (int, error) {
	return s.count(ctx, "new", `
		SELECT COUNT(*)
		FROM cards c
		LEFT JOIN memory_states m ON m.card_id = c.id
		WHERE (m.card_id IS NULL OR m.stage = $1)
		  AND ($2::uuid IS NULL OR c.collection_id = $2)`,
		domain.StageNew, collectionArg(collectionID),
	)
}

// CountTotal implements store.CardStore.CountTotal
func (s *PostgresCardStore) CountTotal(ctx context.Context, collectionID *uuid.UUID) (int, error) {
	return s.count(ctx, "total",
		`SELECT COUNT(*) FROM cards c WHERE ($1::uuid IS NULL OR c.collection_id = $1)`,
		collectionArg(collectionID),
	)
}

func (s *PostgresCardStore) count(ctx context.Context, what, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count cards",
			slog.String("count", what), slog.Any("error", err))
		return 0, fmt.Errorf("failed to count %s cards: %w", what, MapError(err))
	}
	return n, nil
}

func (s *PostgresCardStore) collectCards(ctx context.Context, rows *sql.Rows) ([]*domain.Card, error) {
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
	var card domain.Card
	if err := row.Scan(&card.ID, &card.CollectionID, &card.Front, &card.Back, &card.CreatedAt, &card.UpdatedAt); err != nil {
		return nil, err
	}
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	return &card, nil
}
