package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/events"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/statscache"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/phrazzld/scry-srs/internal/task"
)

// CreateCollection implements Service.CreateCollection.
func (s *Scheduler) CreateCollection(ctx context.Context, name string) (*domain.Collection, error) {
	collection, err := domain.NewCollection(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	err = s.writer.Do(ctx, task.JobCreateCollection, func(ctx context.Context) error {
		return s.stores.Collections.Create(ctx, collection)
	})
	if err != nil {
		return nil, s.fail(ctx, "create_collection", "failed to create collection", err)
	}

	s.emit(ctx, events.TypeCollectionCreated, events.CollectionChanged{CollectionID: collection.ID})
	return collection, nil
}

// ListCollections implements Service.ListCollections.
func (s *Scheduler) ListCollections(ctx context.Context) ([]*domain.Collection, error) {
	collections, err := s.stores.Collections.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list_collections", "failed to list collections", err)
	}
	return collections, nil
}

// DeleteCollection implements Service.DeleteCollection.
func (s *Scheduler) DeleteCollection(ctx context.Context, collectionID uuid.UUID) (int, error) {
	var touched int
	err := s.writer.Do(ctx, task.JobDeleteCollection, func(ctx context.Context) error {
		err := s.inTx(ctx, func(ctx context.Context, tx store.Stores) error {
			if _, err := tx.Collections.GetByID(ctx, collectionID); err != nil {
				return err
			}
			var err error
			if s.deletePolicy == domain.DeletePolicyCascade {
				touched, err = tx.Cards.DeleteByCollection(ctx, collectionID)
			} else {
				touched, err = tx.Cards.DetachCollection(ctx, collectionID)
			}
			if err != nil {
				return err
			}
			return tx.Collections.Delete(ctx, collectionID)
		})
		if err != nil {
			return err
		}
		s.cache.Invalidate(statscache.Key(&collectionID), statscache.AllCards)
		return nil
	})
	if err != nil {
		return 0, s.fail(ctx, "delete_collection", "failed to delete collection", err,
			slog.String("collection_id", collectionID.String()))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("collection deleted",
		slog.String("collection_id", collectionID.String()),
		slog.String("policy", string(s.deletePolicy)),
		slog.Int("cards_touched", touched))

	s.emit(ctx, events.TypeCollectionDeleted, events.CollectionChanged{
		CollectionID: collectionID,
		Policy:       string(s.deletePolicy),
		CardsTouched: touched,
	})
	return touched, nil
}

// CreateCard implements Service.CreateCard.
func (s *Scheduler) CreateCard(
	ctx context.Context,
	collectionID *uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	card, err := domain.NewCard(collectionID, front, back)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	err = s.writer.Do(ctx, task.JobCreateCard, func(ctx context.Context) error {
		if err := s.stores.Cards.Create(ctx, card); err != nil {
			return err
		}
		s.invalidate(card)
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "create_card", "failed to create card", err, collectionAttr(collectionID))
	}

	s.emit(ctx, events.TypeCardCreated, events.CardChanged{CardID: card.ID, CollectionID: card.Collection()})
	return card, nil
}

// GetCard implements Service.GetCard.
func (s *Scheduler) GetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.stores.Cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, s.fail(ctx, "get_card", "failed to get card", err, slog.String("card_id", cardID.String()))
	}
	return card, nil
}

// DeleteCard implements Service.DeleteCard.
func (s *Scheduler) DeleteCard(ctx context.Context, cardID uuid.UUID) error {
	var card *domain.Card
	err := s.writer.Do(ctx, task.JobDeleteCard, func(ctx context.Context) error {
		err := s.inTx(ctx, func(ctx context.Context, tx store.Stores) error {
			var err error
			card, err = tx.Cards.GetByID(ctx, cardID)
			if err != nil {
				return err
			}
			return tx.Cards.Delete(ctx, cardID)
		})
		if err != nil {
			return err
		}
		s.invalidate(card)
		return nil
	})
	if err != nil {
		return s.fail(ctx, "delete_card", "failed to delete card", err, slog.String("card_id", cardID.String()))
	}

	s.emit(ctx, events.TypeCardDeleted, events.CardChanged{CardID: cardID, CollectionID: card.Collection()})
	return nil
}
