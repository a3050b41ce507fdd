package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStores(t *testing.T) store.Stores {
	t.Helper()
	ctx := context.Background()
	log, _ := logger.GetTestLogger(t)

	db, err := Open(ctx, filepath.Join(t.TempDir(), "scry.db"), 0, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, log))
	return NewStores(db, log)
}

func mustCollection(t *testing.T, s store.Stores, name string) *domain.Collection {
	t.Helper()
	c, err := domain.NewCollection(name)
	require.NoError(t, err)
	require.NoError(t, s.Collections.Create(context.Background(), c))
	return c
}

func mustCard(t *testing.T, s store.Stores, collectionID *uuid.UUID, front string, createdAt time.Time) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(collectionID, front, "back of "+front)
	require.NoError(t, err)
	card.CreatedAt = createdAt
	card.UpdatedAt = createdAt
	require.NoError(t, s.Cards.Create(context.Background(), card))
	return card
}

func mustState(t *testing.T, s store.Stores, cardID uuid.UUID, stage domain.Stage, stability float64, due time.Time) {
	t.Helper()
	state := &domain.MemoryState{
		CardID:         cardID,
		Stability:      stability,
		Difficulty:     5,
		Retrievability: 0.9,
		DueAt:          due,
		LastReviewedAt: due.Add(-24 * time.Hour),
		Stage:          stage,
		TotalReviews:   1,
		CreatedAt:      epoch,
		UpdatedAt:      epoch,
	}
	require.NoError(t, s.States.Upsert(context.Background(), state))
}

func cardIDs(cards []*domain.Card) []uuid.UUID {
	ids := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
