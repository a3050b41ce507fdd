package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/history"
	"github.com/phrazzld/scry-srs/internal/events"
	"github.com/phrazzld/scry-srs/internal/statscache"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/phrazzld/scry-srs/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesDependencies(t *testing.T) {
	f := newFixture(t)
	base := Dependencies{Stores: f.stores, Writer: f.writer, Cache: f.cache}

	t.Run("missing stores", func(t *testing.T) {
		deps := base
		deps.Stores = store.Stores{}
		_, err := New(deps, Config{})
		assert.Error(t, err)
	})

	t.Run("missing writer", func(t *testing.T) {
		deps := base
		deps.Writer = nil
		_, err := New(deps, Config{})
		assert.Error(t, err)
	})

	t.Run("missing cache", func(t *testing.T) {
		deps := base
		deps.Cache = nil
		_, err := New(deps, Config{})
		assert.Error(t, err)
	})

	t.Run("unknown delete policy", func(t *testing.T) {
		_, err := New(base, Config{DeletePolicy: "purge"})
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		svc, err := New(base, Config{})
		require.NoError(t, err)
		assert.Equal(t, DefaultLimit, svc.defaultLimit)
		assert.Equal(t, domain.DeletePolicyDetach, svc.deletePolicy)
		assert.NotNil(t, svc.engine)
		assert.IsType(t, events.NoopEmitter{}, svc.events)
	})
}

func TestCommitReviewFirstReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "ephemeral")

	entry, err := f.svc.CommitReview(ctx, card.ID, domain.RatingGood, domain.ReviewModeScheduled)
	require.NoError(t, err)

	assert.Equal(t, card.ID, entry.CardID)
	assert.Equal(t, domain.RatingGood, entry.Rating)
	assert.Equal(t, domain.StageLearning, entry.Stage)
	assert.Equal(t, 0.0, entry.ElapsedDays)
	assert.Positive(t, entry.ScheduledDays)
	assert.True(t, entry.ReviewedAt.Equal(epoch))

	record := f.record(t, card.ID)
	assert.Equal(t, domain.StageLearning, record.Stage)
	assert.Equal(t, 1, record.TotalReviews)
	assert.True(t, record.LastReviewedAt.Equal(epoch))
	assert.True(t, record.DueAt.After(epoch))

	logs, err := f.stores.Logs.ListByCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entry.ID, logs[0].ID)

	assert.Equal(t, []string{events.TypeCardCreated, events.TypeReviewCommitted}, f.handler.types())
}

func TestCommitReviewElapsedDays(t *testing.T) {
	f := newFixture(t)
	card := f.card(t, nil, "ubiquitous")

	f.review(t, card.ID, domain.RatingGood)
	f.clock.Advance(36 * time.Hour)
	entry := f.review(t, card.ID, domain.RatingGood)

	assert.InDelta(t, 1.5, entry.ElapsedDays, 1e-9)
}

func TestCommitReviewCramLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "perspicacious")

	f.review(t, card.ID, domain.RatingGood)
	f.review(t, card.ID, domain.RatingGood)
	before := f.record(t, card.ID)

	f.clock.Advance(2 * time.Hour)
	entry, err := f.svc.CommitReview(ctx, card.ID, domain.RatingAgain, domain.ReviewModeCram)
	require.NoError(t, err)

	after := f.record(t, card.ID)
	assert.Equal(t, before, after)

	assert.Equal(t, domain.ReviewModeCram, entry.Mode)
	assert.Equal(t, 0.0, entry.ScheduledDays)
	assert.Equal(t, before.Stage, entry.Stage)

	n, err := f.stores.Logs.CountByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCommitReviewCramOnUnreviewedCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "sesquipedalian")

	entry, err := f.svc.CommitReview(ctx, card.ID, domain.RatingEasy, domain.ReviewModeCram)
	require.NoError(t, err)
	assert.Equal(t, domain.StageNew, entry.Stage)

	_, err = f.stores.States.Get(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrMemoryStateNotFound)
}

func TestCommitReviewOutOfRangeRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "quixotic")

	entry, err := f.svc.CommitReview(ctx, card.ID, domain.Rating(7), domain.ReviewModeScheduled)
	require.NoError(t, err)
	assert.Equal(t, domain.Rating(7), entry.Rating)
	assert.Equal(t, domain.StageLearning, entry.Stage)
	warn, ok := f.logs.Find("out-of-range rating scheduled as good")
	require.True(t, ok)
	assert.Equal(t, "WARN", warn.Level())
	assert.Equal(t, "7", warn.Str("rating"))

	logs, err := f.stores.Logs.ListByCard(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.Rating(7), logs[0].Rating)
}

func TestCommitReviewErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "laconic")

	t.Run("unknown card", func(t *testing.T) {
		_, err := f.svc.CommitReview(ctx, uuid.New(), domain.RatingGood, domain.ReviewModeScheduled)
		assert.ErrorIs(t, err, ErrCardNotFound)
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := f.svc.CommitReview(ctx, card.ID, domain.RatingGood, "leisure")
		assert.ErrorIs(t, err, ErrInvalidMode)
		assert.ErrorIs(t, err, ErrInvalidInput)

		n, err := f.stores.Logs.CountByCard(ctx, card.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("writer stopped", func(t *testing.T) {
		g := newFixture(t)
		c := g.card(t, nil, "ephemeral")
		g.writer.Stop()

		_, err := g.svc.CommitReview(ctx, c.ID, domain.RatingGood, domain.ReviewModeScheduled)
		require.Error(t, err)
		assert.ErrorIs(t, err, task.ErrWriterClosed)
		var svcErr *ServiceError
		require.True(t, errors.As(err, &svcErr))
		assert.Equal(t, "commit_review", svcErr.Operation)
	})
}

func TestConcurrentCommitsOnDistinctCards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 50
	cards := make([]*domain.Card, n)
	for i := range cards {
		cards[i] = f.card(t, nil, fmt.Sprintf("word-%02d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, card := range cards {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.CommitReview(ctx, id, domain.RatingGood, domain.ReviewModeScheduled)
			errs <- err
		}(card.ID)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	for _, card := range cards {
		count, err := f.stores.Logs.CountByCard(ctx, card.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "card %s", card.Front)
		assert.Equal(t, 1, f.record(t, card.ID).TotalReviews)
	}
}

func TestConcurrentCommitsOnSameCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "contested")

	const n = 30
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CommitReview(ctx, card.ID, domain.RatingGood, domain.ReviewModeScheduled)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	count, err := f.stores.Logs.CountByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, n, count)
	assert.Equal(t, n, f.record(t, card.ID).TotalReviews, "every commit must see the previous one")

	// Only the first commit may observe the card as unreviewed.
	rows, err := f.svc.History(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, rows, n)
	firsts := 0
	for _, r := range rows {
		if r.Change == history.ChangeFirstReview {
			firsts++
		}
	}
	assert.Equal(t, 1, firsts)
}

func TestLifecycleHistoryLabels(t *testing.T) {
	f := newFixture(t)
	card := f.card(t, nil, "serendipity")

	for _, rating := range []domain.Rating{
		domain.RatingGood, domain.RatingEasy, domain.RatingGood, domain.RatingAgain, domain.RatingGood,
	} {
		f.review(t, card.ID, rating)
		f.clock.Advance(24 * time.Hour)
	}

	rows, err := f.svc.History(context.Background(), card.ID)
	require.NoError(t, err)

	changes := make([]history.Change, len(rows))
	for i, r := range rows {
		changes[i] = r.Change
	}
	assert.Equal(t, []history.Change{
		history.ChangeFirstReview,
		history.ChangeGraduated,
		history.ChangeNone,
		history.ChangeRelearning,
		history.ChangeNone,
	}, changes)
}

func TestHistoryUnknownCard(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.History(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "mellifluous")

	f.review(t, card.ID, domain.RatingGood)
	f.review(t, card.ID, domain.RatingAgain)
	f.clock.Advance(time.Hour)

	require.NoError(t, f.svc.Reset(ctx, card.ID))

	record := f.record(t, card.ID)
	assert.Equal(t, domain.StageNew, record.Stage)
	assert.Zero(t, record.Stability)
	assert.True(t, record.DueAt.Equal(f.clock.Now()))
	assert.Equal(t, 2, record.TotalReviews)

	n, err := f.stores.Logs.CountByCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cram, err := f.svc.FetchForCram(ctx, nil, 0)
	require.NoError(t, err)
	require.NotEmpty(t, cram)
	assert.Equal(t, card.ID, cram[0].ID)
}

func TestResetNeverReviewedCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "nascent")

	require.NoError(t, f.svc.Reset(ctx, card.ID))

	_, err := f.stores.States.Get(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrMemoryStateNotFound)
	assert.Contains(t, f.handler.types(), events.TypeCardReset)

	assert.ErrorIs(t, f.svc.Reset(ctx, uuid.New()), ErrCardNotFound)
}

func TestFetchDueSkipsNewAndLearning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fresh := f.card(t, nil, "fresh")
	learning := f.card(t, nil, "learning")
	graduated := f.card(t, nil, "graduated")

	f.review(t, learning.ID, domain.RatingGood)
	f.review(t, graduated.ID, domain.RatingGood)
	f.review(t, graduated.ID, domain.RatingGood)
	require.Equal(t, domain.StageReview, f.record(t, graduated.ID).Stage)

	due, err := f.svc.FetchDue(ctx, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, due)

	f.clock.Advance(400 * 24 * time.Hour)

	due, err = f.svc.FetchDue(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, graduated.ID, due[0].ID)
	assert.NotEqual(t, fresh.ID, due[0].ID)

	count, err := f.svc.CountDue(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFetchDueScopedToCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	spanish := f.collection(t, "Spanish")
	french := f.collection(t, "French")

	es := f.card(t, &spanish.ID, "hola")
	fr := f.card(t, &french.ID, "bonjour")
	for _, id := range []uuid.UUID{es.ID, fr.ID} {
		f.review(t, id, domain.RatingGood)
		f.review(t, id, domain.RatingGood)
	}
	f.clock.Advance(400 * 24 * time.Hour)

	due, err := f.svc.FetchDue(ctx, &spanish.ID, 0)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, es.ID, due[0].ID)

	all, err := f.svc.FetchDue(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFetchForCramPutsNewCardsFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	strong := f.card(t, nil, "strong")
	fresh := f.card(t, nil, "fresh")
	f.review(t, strong.ID, domain.RatingEasy)
	f.review(t, strong.ID, domain.RatingEasy)

	cards, err := f.svc.FetchForCram(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, fresh.ID, cards[0].ID)
	assert.Equal(t, strong.ID, cards[1].ID)
}

func TestPreviewAndCardState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "petrichor")

	state, err := f.svc.CardState(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Unreviewed{}, state)

	preview, err := f.svc.Preview(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, preview, len(domain.AllRatings))
	assert.False(t, preview[domain.RatingEasy].Before(preview[domain.RatingAgain]))

	f.review(t, card.ID, domain.RatingGood)
	state, err = f.svc.CardState(ctx, card.ID)
	require.NoError(t, err)
	tracked, ok := state.(domain.Tracked)
	require.True(t, ok)
	assert.Equal(t, domain.StageLearning, tracked.Record.Stage)

	detail, err := f.svc.CardDetail(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, detail.Card.ID)
	assert.InDelta(t, 1.0, detail.Retrievability, 1e-6)

	_, err = f.svc.Preview(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestDeckStatisticsCaching(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deck := f.collection(t, "Vocabulary")
	a := f.card(t, &deck.ID, "alpha")
	f.card(t, &deck.ID, "beta")

	stats, err := f.svc.FetchDeckStatistics(ctx, &deck.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeckStats{Due: 0, New: 2, Total: 2}, stats)
	assert.Equal(t, 1, f.observer.misses)
	assert.True(t, f.cache.IsValid(statscache.Key(&deck.ID)))

	_, err = f.svc.FetchDeckStatistics(ctx, &deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.observer.hits)

	f.review(t, a.ID, domain.RatingGood)
	assert.False(t, f.cache.IsValid(statscache.Key(&deck.ID)))
	assert.False(t, f.cache.IsValid(statscache.AllCards))

	stats, err = f.svc.FetchDeckStatistics(ctx, &deck.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeckStats{Due: 0, New: 1, Total: 2}, stats)
}

func TestDeckStatisticsExpireAfterTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.card(t, nil, "lonely")

	_, err := f.svc.FetchDeckStatistics(ctx, nil)
	require.NoError(t, err)
	f.clock.Advance(f.cache.TTL())
	_, err = f.svc.FetchDeckStatistics(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, f.observer.misses)
	assert.Zero(t, f.observer.hits)
}

func TestStaleStatisticsAreDiscarded(t *testing.T) {
	var cache *statscache.Cache
	f := newFixture(t, withExecutor(func(next task.Executor) task.Executor {
		return &hookExecutor{next: next, before: func(name string) {
			// A commit lands between the read phase and the cache write.
			if name == task.JobCacheWrite {
				cache.Invalidate(statscache.AllCards)
			}
		}}
	}))
	cache = f.cache
	f.card(t, nil, "stale")

	stats, err := f.svc.FetchDeckStatistics(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.False(t, f.cache.IsValid(statscache.AllCards))
}

func TestDeckStatisticsBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.collection(t, "A")
	b := f.collection(t, "B")
	empty := f.collection(t, "Empty")
	f.card(t, &a.ID, "a1")
	f.card(t, &a.ID, "a2")
	f.card(t, &b.ID, "b1")

	_, err := f.svc.FetchDeckStatistics(ctx, &a.ID)
	require.NoError(t, err)

	batch, err := f.svc.FetchDeckStatisticsBatch(ctx, []uuid.UUID{a.ID, b.ID, empty.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, batch, 3)
	assert.Equal(t, 2, batch[a.ID].Total)
	assert.Equal(t, 1, batch[b.ID].New)
	assert.Equal(t, domain.DeckStats{}, batch[empty.ID])

	for _, id := range []uuid.UUID{a.ID, b.ID, empty.ID} {
		assert.True(t, f.cache.IsValid(statscache.Key(ptr(id))))
	}

	batch, err = f.svc.FetchDeckStatisticsBatch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestDeleteCollectionDetach(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deck := f.collection(t, "Doomed")
	card := f.card(t, &deck.ID, "survivor")
	f.review(t, card.ID, domain.RatingGood)

	touched, err := f.svc.DeleteCollection(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	got, err := f.svc.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Collection())
	assert.Equal(t, 1, f.record(t, card.ID).TotalReviews)

	_, err = f.svc.DeleteCollection(ctx, deck.ID)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestDeleteCollectionCascade(t *testing.T) {
	f := newFixture(t, withPolicy(domain.DeletePolicyCascade))
	ctx := context.Background()
	deck := f.collection(t, "Doomed")
	keep := f.card(t, nil, "keeper")
	gone := f.card(t, &deck.ID, "goner")
	f.review(t, gone.ID, domain.RatingGood)

	touched, err := f.svc.DeleteCollection(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	_, err = f.svc.GetCard(ctx, gone.ID)
	assert.ErrorIs(t, err, ErrCardNotFound)
	n, err := f.stores.Logs.CountByCard(ctx, gone.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.svc.GetCard(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestCatalogErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCollection(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateCard(ctx, nil, "", "back")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateCard(ctx, ptr(uuid.New()), "front", "back")
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	assert.ErrorIs(t, f.svc.DeleteCard(ctx, uuid.New()), ErrCardNotFound)

	_, err = f.svc.GetCard(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestListCollections(t *testing.T) {
	f := newFixture(t)
	f.collection(t, "Zoology")
	f.collection(t, "Anatomy")

	list, err := f.svc.ListCollections(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Anatomy", list[0].Name)
	assert.Equal(t, "Zoology", list[1].Name)
}

func TestDeleteCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.card(t, nil, "transient")
	f.review(t, card.ID, domain.RatingHard)

	require.NoError(t, f.svc.DeleteCard(ctx, card.ID))

	_, err := f.stores.States.Get(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrMemoryStateNotFound)
	assert.Contains(t, f.handler.types(), events.TypeCardDeleted)
}

func TestExportHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deck := f.collection(t, "Export")
	first := f.card(t, &deck.ID, "first")
	second := f.card(t, &deck.ID, "second")
	outside := f.card(t, nil, "outside")

	f.review(t, second.ID, domain.RatingGood)
	f.review(t, first.ID, domain.RatingGood)
	f.review(t, outside.ID, domain.RatingGood)
	f.clock.Advance(24 * time.Hour)
	f.review(t, first.ID, domain.RatingEasy)

	rows, err := f.svc.ExportHistory(ctx, &deck.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Rows are grouped by card, each group in review order.
	var firstRows []history.Row
	for i, r := range rows {
		if r.CardID == first.ID {
			firstRows = append(firstRows, r)
			continue
		}
		assert.Equal(t, second.ID, r.CardID)
		assert.Equal(t, history.ChangeFirstReview, r.Change)
		assert.True(t, i == 0 || i == 2, "second card's row splits the first card's group")
	}
	require.Len(t, firstRows, 2)
	assert.Equal(t, history.ChangeFirstReview, firstRows[0].Change)
	assert.Equal(t, history.ChangeGraduated, firstRows[1].Change)
	assert.Equal(t, "easy", firstRows[1].RatingLabel)

	all, err := f.svc.ExportHistory(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = f.svc.ExportHistory(ctx, ptr(uuid.New()))
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestServiceError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewServiceError("commit_review", "failed to commit review", inner)

	assert.Equal(t, "commit_review operation failed: failed to commit review: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "reset operation failed: nope", NewServiceError("reset", "nope", nil).Error())
}

func TestMapStoreError(t *testing.T) {
	assert.ErrorIs(t, mapStoreError(store.ErrCardNotFound), ErrCardNotFound)
	assert.ErrorIs(t, mapStoreError(store.ErrCollectionNotFound), ErrCollectionNotFound)

	invalid := mapStoreError(fmt.Errorf("%w: bad stage", store.ErrInvalidEntity))
	assert.ErrorIs(t, invalid, ErrInvalidInput)
	assert.ErrorIs(t, invalid, store.ErrInvalidEntity)

	other := errors.New("other")
	assert.Equal(t, other, mapStoreError(other))
}
