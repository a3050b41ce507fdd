package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/events"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/statscache"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/phrazzld/scry-srs/internal/task"
)

// CommitReview implements Service.CommitReview.
func (s *Scheduler) CommitReview(
	ctx context.Context,
	cardID uuid.UUID,
	rating domain.Rating,
	mode domain.ReviewMode,
) (*domain.ReviewLogEntry, error) {
	const op = "commit_review"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !mode.IsValid() {
		return nil, ErrInvalidMode
	}
	if !rating.IsValid() {
		log.Warn("out-of-range rating scheduled as good",
			slog.String("card_id", cardID.String()),
			slog.Int("rating", int(rating)))
	}

	var (
		entry domain.ReviewLogEntry
		card  *domain.Card
	)
	err := s.writer.Do(ctx, task.JobCommitReview, func(ctx context.Context) error {
		err := s.inTx(ctx, func(ctx context.Context, tx store.Stores) error {
			var err error
			card, err = tx.Cards.GetByID(ctx, cardID)
			if err != nil {
				return err
			}
			current, err := loadState(ctx, tx.States, cardID)
			if err != nil {
				return err
			}

			now := s.now()
			state := domain.StateOf(current)
			next, scheduledDays := s.engine.NextState(state, rating, now)
			next.CardID = cardID

			entry = domain.ReviewLogEntry{
				ID:          domain.NewReviewLogID(),
				CardID:      cardID,
				Rating:      rating,
				Mode:        mode,
				ReviewedAt:  now,
				ElapsedDays: elapsedSince(current, now),
			}
			if mode == domain.ReviewModeCram {
				entry.Stage = domain.StageOf(state)
			} else {
				if err := tx.States.Upsert(ctx, &next); err != nil {
					return err
				}
				entry.ScheduledDays = scheduledDays
				entry.Stage = next.Stage
			}
			return tx.Logs.Append(ctx, &entry)
		})
		if err != nil {
			return err
		}
		s.invalidate(card)
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, "failed to commit review", err, slog.String("card_id", cardID.String()))
	}

	log.Debug("review committed",
		slog.String("card_id", cardID.String()),
		slog.String("rating", rating.String()),
		slog.String("mode", string(mode)),
		slog.String("stage", entry.Stage.String()),
		slog.Float64("scheduled_days", entry.ScheduledDays))

	s.emit(ctx, events.TypeReviewCommitted, events.ReviewCommitted{
		CardID:        cardID,
		CollectionID:  card.Collection(),
		Rating:        int(rating),
		RatingLabel:   rating.Label(),
		Mode:          string(mode),
		Stage:         entry.Stage.String(),
		ScheduledDays: entry.ScheduledDays,
	})
	return &entry, nil
}

// Reset implements Service.Reset. A card that was never reviewed is already
// New and is left without a record.
func (s *Scheduler) Reset(ctx context.Context, cardID uuid.UUID) error {
	const op = "reset"

	var card *domain.Card
	err := s.writer.Do(ctx, task.JobResetCard, func(ctx context.Context) error {
		err := s.inTx(ctx, func(ctx context.Context, tx store.Stores) error {
			var err error
			card, err = tx.Cards.GetByID(ctx, cardID)
			if err != nil {
				return err
			}
			current, err := loadState(ctx, tx.States, cardID)
			if err != nil || current == nil {
				return err
			}
			reset := s.engine.ResetState(*current, s.now())
			return tx.States.Upsert(ctx, &reset)
		})
		if err != nil {
			return err
		}
		s.invalidate(card)
		return nil
	})
	if err != nil {
		return s.fail(ctx, op, "failed to reset card", err, slog.String("card_id", cardID.String()))
	}

	s.emit(ctx, events.TypeCardReset, events.CardChanged{CardID: cardID, CollectionID: card.Collection()})
	return nil
}

// Preview implements Service.Preview.
func (s *Scheduler) Preview(ctx context.Context, cardID uuid.UUID) (map[domain.Rating]time.Time, error) {
	state, err := s.CardState(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return s.engine.PreviewAll(state, s.now()), nil
}

// CardState implements Service.CardState.
func (s *Scheduler) CardState(ctx context.Context, cardID uuid.UUID) (domain.CardState, error) {
	if _, err := s.stores.Cards.GetByID(ctx, cardID); err != nil {
		return nil, s.fail(ctx, "card_state", "failed to get card", err, slog.String("card_id", cardID.String()))
	}
	current, err := loadState(ctx, s.stores.States, cardID)
	if err != nil {
		return nil, s.fail(ctx, "card_state", "failed to get memory state", err, slog.String("card_id", cardID.String()))
	}
	return domain.StateOf(current), nil
}

// CardDetail implements Service.CardDetail.
func (s *Scheduler) CardDetail(ctx context.Context, cardID uuid.UUID) (*CardDetail, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	current, err := loadState(ctx, s.stores.States, cardID)
	if err != nil {
		return nil, s.fail(ctx, "card_detail", "failed to get memory state", err, slog.String("card_id", cardID.String()))
	}

	detail := &CardDetail{Card: card, State: domain.StateOf(current)}
	if current != nil {
		detail.Retrievability = s.engine.Retrievability(*current, s.now())
	}
	return detail, nil
}

// loadState returns the card's record, or nil if it was never reviewed.
func loadState(ctx context.Context, states store.MemoryStateStore, cardID uuid.UUID) (*domain.MemoryState, error) {
	current, err := states.Get(ctx, cardID)
	if errors.Is(err, store.ErrMemoryStateNotFound) {
		return nil, nil
	}
	return current, err
}

// elapsedSince is the number of days since the previous review, 0 for a
// first review.
func elapsedSince(current *domain.MemoryState, now time.Time) float64 {
	if current == nil || current.LastReviewedAt.IsZero() {
		return 0
	}
	return math.Max(now.Sub(current.LastReviewedAt).Hours()/24, 0)
}

// invalidate drops the cached statistics a change to card can affect.
// It runs on the writer after the transaction committed.
func (s *Scheduler) invalidate(card *domain.Card) {
	s.cache.Invalidate(statscache.Key(card.Collection()), statscache.AllCards)
}
