package scheduler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain/history"
)

// History implements Service.History.
func (s *Scheduler) History(ctx context.Context, cardID uuid.UUID) ([]history.Row, error) {
	if _, err := s.stores.Cards.GetByID(ctx, cardID); err != nil {
		return nil, s.fail(ctx, "history", "failed to get card", err, slog.String("card_id", cardID.String()))
	}
	entries, err := s.stores.Logs.ListByCard(ctx, cardID)
	if err != nil {
		return nil, s.fail(ctx, "history", "failed to list review log", err, slog.String("card_id", cardID.String()))
	}
	return history.Rows(entries), nil
}

// ExportHistory implements Service.ExportHistory.
func (s *Scheduler) ExportHistory(ctx context.Context, collectionID *uuid.UUID) ([]history.Row, error) {
	if collectionID != nil {
		if _, err := s.stores.Collections.GetByID(ctx, *collectionID); err != nil {
			return nil, s.fail(ctx, "export_history", "failed to get collection", err, collectionAttr(collectionID))
		}
	}
	entries, err := s.stores.Logs.ListByCollection(ctx, collectionID)
	if err != nil {
		return nil, s.fail(ctx, "export_history", "failed to list review log", err, collectionAttr(collectionID))
	}
	return history.Rows(entries), nil
}
