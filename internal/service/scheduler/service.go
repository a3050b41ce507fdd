package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/history"
)

// Service is the scheduling surface consumed by the HTTP layer and the CLI.
//
// Collection-scoped operations take an optional collection ID; nil means
// every card. Every mutation runs on the single writer and is committed in
// one store transaction before the call returns.
type Service interface {
	// FetchDue returns cards in Review or Relearning whose due date has
	// passed, oldest due first. limit <= 0 uses the configured default.
	FetchDue(ctx context.Context, collectionID *uuid.UUID, limit int) ([]*domain.Card, error)

	// FetchForCram returns cards weakest first, ignoring due dates. Cards
	// never reviewed count as stability 0.
	FetchForCram(ctx context.Context, collectionID *uuid.UUID, limit int) ([]*domain.Card, error)

	// CountDue counts the cards FetchDue would return without a limit.
	CountDue(ctx context.Context, collectionID *uuid.UUID) (int, error)

	// CommitReview applies a rating to a card and appends a review-log entry.
	// In cram mode the memory state is left untouched. Ratings outside 0..3
	// are stored verbatim and scheduled as Good.
	CommitReview(
		ctx context.Context,
		cardID uuid.UUID,
		rating domain.Rating,
		mode domain.ReviewMode,
	) (*domain.ReviewLogEntry, error)

	// Reset returns a card to New, due now, discarding stability and
	// difficulty. Review counters are kept.
	Reset(ctx context.Context, cardID uuid.UUID) error

	// Preview returns the due date each rating would produce right now.
	Preview(ctx context.Context, cardID uuid.UUID) (map[domain.Rating]time.Time, error)

	// CardState returns Unreviewed or the card's Tracked record.
	CardState(ctx context.Context, cardID uuid.UUID) (domain.CardState, error)

	// CardDetail returns a card with its state and current retrievability.
	CardDetail(ctx context.Context, cardID uuid.UUID) (*CardDetail, error)

	// FetchDeckStatistics returns due/new/total counts through the stats cache.
	FetchDeckStatistics(ctx context.Context, collectionID *uuid.UUID) (domain.DeckStats, error)

	// FetchDeckStatisticsBatch returns statistics for several collections,
	// computing cache misses in parallel.
	FetchDeckStatisticsBatch(ctx context.Context, collectionIDs []uuid.UUID) (map[uuid.UUID]domain.DeckStats, error)

	CreateCollection(ctx context.Context, name string) (*domain.Collection, error)
	ListCollections(ctx context.Context) ([]*domain.Collection, error)

	// DeleteCollection applies the configured delete policy and returns the
	// number of cards detached or deleted.
	DeleteCollection(ctx context.Context, collectionID uuid.UUID) (int, error)

	CreateCard(ctx context.Context, collectionID *uuid.UUID, front, back string) (*domain.Card, error)
	GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error)

	// DeleteCard removes a card with its memory state and review log.
	DeleteCard(ctx context.Context, cardID uuid.UUID) error

	// History returns the classified review history of one card.
	History(ctx context.Context, cardID uuid.UUID) ([]history.Row, error)

	// ExportHistory returns the classified review history of every card in
	// the scope, grouped by card.
	ExportHistory(ctx context.Context, collectionID *uuid.UUID) ([]history.Row, error)
}

// CardDetail is a card together with its scheduling state.
type CardDetail struct {
	Card           *domain.Card
	State          domain.CardState
	Retrievability float64
}

// Common errors returned by the scheduler. Callers check them with errors.Is.
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCollectionNotFound indicates that the collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrInvalidInput indicates the request failed domain validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidMode indicates an unknown review mode.
	ErrInvalidMode = fmt.Errorf("%w: review mode must be scheduled or cram", ErrInvalidInput)
)

// ServiceError wraps unexpected failures (store, writer) with the operation
// that hit them. Expected conditions are returned as the sentinels above.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "commit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for op.
func NewServiceError(op, message string, err error) *ServiceError {
	return &ServiceError{Operation: op, Message: message, Err: err}
}
