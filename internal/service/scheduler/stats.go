package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/statscache"
	"github.com/phrazzld/scry-srs/internal/task"
	"golang.org/x/sync/errgroup"
)

// maxParallelStats bounds the concurrent read phase of a batch.
const maxParallelStats = 4

// FetchDeckStatistics implements Service.FetchDeckStatistics.
func (s *Scheduler) FetchDeckStatistics(ctx context.Context, collectionID *uuid.UUID) (domain.DeckStats, error) {
	key := statscache.Key(collectionID)
	if stats, ok := s.lookup(key); ok {
		return stats, nil
	}

	gen := s.cache.Generation()
	stats, err := s.computeStats(ctx, collectionID)
	if err != nil {
		return domain.DeckStats{}, s.fail(ctx, "fetch_deck_statistics", "failed to compute statistics", err,
			collectionAttr(collectionID))
	}

	s.cacheStats(ctx, gen, map[string]domain.DeckStats{key: stats})
	return stats, nil
}

// FetchDeckStatisticsBatch implements Service.FetchDeckStatisticsBatch.
// Duplicate IDs are computed once.
func (s *Scheduler) FetchDeckStatisticsBatch(
	ctx context.Context,
	collectionIDs []uuid.UUID,
) (map[uuid.UUID]domain.DeckStats, error) {
	result := make(map[uuid.UUID]domain.DeckStats, len(collectionIDs))
	misses := make([]uuid.UUID, 0, len(collectionIDs))
	seen := make(map[uuid.UUID]bool, len(collectionIDs))
	for _, id := range collectionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if stats, ok := s.lookup(statscache.Key(&id)); ok {
			result[id] = stats
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return result, nil
	}

	gen := s.cache.Generation()
	computed := make([]domain.DeckStats, len(misses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelStats)
	for i, id := range misses {
		i, id := i, id
		g.Go(func() error {
			stats, err := s.computeStats(gctx, &id)
			if err != nil {
				return fmt.Errorf("collection %s: %w", id, err)
			}
			computed[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, "fetch_deck_statistics_batch", "failed to compute statistics", err,
			slog.Int("collections", len(misses)))
	}

	batch := make(map[string]domain.DeckStats, len(misses))
	for i, id := range misses {
		result[id] = computed[i]
		batch[statscache.Key(&id)] = computed[i]
	}
	s.cacheStats(ctx, gen, batch)
	return result, nil
}

func (s *Scheduler) lookup(key string) (domain.DeckStats, bool) {
	stats, ok := s.cache.Get(key)
	if s.cacheObs != nil {
		s.cacheObs.ObserveCacheLookup(ok)
	}
	return stats, ok
}

func (s *Scheduler) computeStats(ctx context.Context, collectionID *uuid.UUID) (domain.DeckStats, error) {
	due, err := s.stores.Cards.CountDue(ctx, collectionID, s.now())
	if err != nil {
		return domain.DeckStats{}, err
	}
	fresh, err := s.stores.Cards.CountNew(ctx, collectionID)
	if err != nil {
		return domain.DeckStats{}, err
	}
	total, err := s.stores.Cards.CountTotal(ctx, collectionID)
	if err != nil {
		return domain.DeckStats{}, err
	}
	return domain.DeckStats{Due: due, New: fresh, Total: total}, nil
}

// cacheStats writes recomputed statistics through the writer. The write is
// dropped if a commit invalidated the cache after gen was read, and a
// failed write only costs a recompute on the next read.
func (s *Scheduler) cacheStats(ctx context.Context, gen uint64, batch map[string]domain.DeckStats) {
	err := s.writer.Do(ctx, task.JobCacheWrite, func(context.Context) error {
		if !s.cache.SetBatchIfCurrent(gen, batch) {
			logger.FromContextOrDefault(ctx, s.logger).Debug("discarded stale statistics",
				slog.Int("entries", len(batch)))
		}
		return nil
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to cache statistics",
			slog.String("error", err.Error()))
	}
}
