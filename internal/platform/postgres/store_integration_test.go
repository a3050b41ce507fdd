//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTxStores runs fn against stores bound to a transaction that is rolled
// back afterwards. A failed statement aborts the transaction, so each test
// ends with at most one expected error.
func withTxStores(t *testing.T, fn func(ctx context.Context, s store.Stores)) {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := Open(ctx, url, 2, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(ctx, db, nil))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	fn(ctx, store.Stores{
		DB:          db,
		Cards:       NewPostgresCardStore(tx, nil),
		Collections: NewPostgresCollectionStore(tx, nil),
		States:      NewPostgresMemoryStateStore(tx, nil),
		Logs:        NewPostgresReviewLogStore(tx, nil),
	})
}

func TestPostgresStoresRoundTrip(t *testing.T) {
	withTxStores(t, func(ctx context.Context, s store.Stores) {
		now := time.Now().UTC().Truncate(time.Microsecond)

		coll, err := domain.NewCollection("integration")
		require.NoError(t, err)
		require.NoError(t, s.Collections.Create(ctx, coll))

		due, err := domain.NewCard(&coll.ID, "due", "")
		require.NoError(t, err)
		require.NoError(t, s.Cards.Create(ctx, due))
		fresh, err := domain.NewCard(&coll.ID, "fresh", "")
		require.NoError(t, err)
		require.NoError(t, s.Cards.Create(ctx, fresh))

		state := &domain.MemoryState{
			CardID: due.ID, Stability: 4, Difficulty: 5, Retrievability: 0.8,
			DueAt: now.Add(-time.Hour), LastReviewedAt: now.Add(-96 * time.Hour),
			Stage: domain.StageReview, TotalReviews: 2, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, s.States.Upsert(ctx, state))

		got, err := s.States.Get(ctx, due.ID)
		require.NoError(t, err)
		assert.True(t, state.DueAt.Equal(got.DueAt))

		cards, err := s.Cards.FetchDue(ctx, &coll.ID, now, 10)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, due.ID, cards[0].ID)

		cards, err = s.Cards.FetchForCram(ctx, &coll.ID, 0)
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, fresh.ID, cards[0].ID)

		n, err := s.Cards.CountNew(ctx, &coll.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		entry := &domain.ReviewLogEntry{
			ID: domain.NewReviewLogID(), CardID: due.ID, Rating: domain.RatingGood,
			Mode: domain.ReviewModeScheduled, ReviewedAt: now, Stage: domain.StageReview,
		}
		require.NoError(t, s.Logs.Append(ctx, entry))
		entries, err := s.Logs.ListByCollection(ctx, &coll.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entry.ID, entries[0].ID)

		_, err = s.Cards.DeleteByCollection(ctx, coll.ID)
		require.NoError(t, err)
		require.NoError(t, s.Collections.Delete(ctx, coll.ID))
		_, err = s.Cards.GetByID(ctx, due.ID)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})
}

func TestPostgresMissingReferences(t *testing.T) {
	withTxStores(t, func(ctx context.Context, s store.Stores) {
		missing := uuid.New()
		card, err := domain.NewCard(&missing, "orphan", "")
		require.NoError(t, err)
		assert.ErrorIs(t, s.Cards.Create(ctx, card), store.ErrCollectionNotFound)
	})
}
