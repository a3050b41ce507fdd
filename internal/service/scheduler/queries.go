package scheduler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
)

func collectionAttr(collectionID *uuid.UUID) slog.Attr {
	if collectionID == nil {
		return slog.String("collection_id", "*")
	}
	return slog.String("collection_id", collectionID.String())
}

// FetchDue implements Service.FetchDue.
func (s *Scheduler) FetchDue(ctx context.Context, collectionID *uuid.UUID, limit int) ([]*domain.Card, error) {
	cards, err := s.stores.Cards.FetchDue(ctx, collectionID, s.now(), s.limit(limit))
	if err != nil {
		return nil, s.fail(ctx, "fetch_due", "failed to fetch due cards", err, collectionAttr(collectionID))
	}
	return cards, nil
}

// FetchForCram implements Service.FetchForCram.
func (s *Scheduler) FetchForCram(ctx context.Context, collectionID *uuid.UUID, limit int) ([]*domain.Card, error) {
	cards, err := s.stores.Cards.FetchForCram(ctx, collectionID, s.limit(limit))
	if err != nil {
		return nil, s.fail(ctx, "fetch_for_cram", "failed to fetch cram cards", err, collectionAttr(collectionID))
	}
	return cards, nil
}

// CountDue implements Service.CountDue.
func (s *Scheduler) CountDue(ctx context.Context, collectionID *uuid.UUID) (int, error) {
	n, err := s.stores.Cards.CountDue(ctx, collectionID, s.now())
	if err != nil {
		return 0, s.fail(ctx, "count_due", "failed to count due cards", err, collectionAttr(collectionID))
	}
	return n, nil
}
