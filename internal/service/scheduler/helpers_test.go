package scheduler

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/events"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/platform/sqlite"
	"github.com/phrazzld/scry-srs/internal/statscache"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/phrazzld/scry-srs/internal/task"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// recordingHandler keeps every event it receives.
type recordingHandler struct {
	mu     sync.Mutex
	events []*events.Event
}

func (h *recordingHandler) HandleEvent(_ context.Context, e *events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
	return nil
}

func (h *recordingHandler) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.Type
	}
	return out
}

// countingObserver counts cache hits and misses.
type countingObserver struct {
	mu           sync.Mutex
	hits, misses int
}

func (o *countingObserver) ObserveCacheLookup(hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

// hookExecutor runs before ahead of every job it forwards.
type hookExecutor struct {
	next   task.Executor
	before func(name string)
}

func (h *hookExecutor) Do(ctx context.Context, name string, job task.Job) error {
	return h.next.Do(ctx, name, func(ctx context.Context) error {
		if h.before != nil {
			h.before(name)
		}
		return job(ctx)
	})
}

type fixture struct {
	svc      *Scheduler
	stores   store.Stores
	cache    *statscache.Cache
	clock    *statscache.ManualClock
	writer   *task.Writer
	handler  *recordingHandler
	observer *countingObserver
	logs     *logger.TestLogBuffer
}

type fixtureOption func(*Dependencies, *Config)

func withPolicy(p domain.DeletePolicy) fixtureOption {
	return func(_ *Dependencies, c *Config) { c.DeletePolicy = p }
}

func withExecutor(wrap func(task.Executor) task.Executor) fixtureOption {
	return func(d *Dependencies, _ *Config) { d.Writer = wrap(d.Writer) }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	ctx := context.Background()
	log, buf := logger.GetTestLogger(t)

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "scry.db"), 0, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db, log))
	stores := sqlite.NewStores(db, log)

	writer := task.NewWriter(task.DefaultWriterConfig(), log)
	writer.Start()
	t.Cleanup(writer.Stop)

	clock := statscache.NewManualClock(epoch)
	cache := statscache.New(statscache.WithClock(clock.Now))

	emitter := events.NewInMemoryEventEmitter(log)
	handler := &recordingHandler{}
	emitter.RegisterHandler(handler)
	observer := &countingObserver{}

	deps := Dependencies{
		Stores:        stores,
		Writer:        writer,
		Cache:         cache,
		Events:        emitter,
		CacheObserver: observer,
		Logger:        log,
	}
	cfg := Config{Clock: clock.Now}
	for _, opt := range opts {
		opt(&deps, &cfg)
	}

	svc, err := New(deps, cfg)
	require.NoError(t, err)

	return &fixture{
		svc:      svc,
		stores:   stores,
		cache:    cache,
		clock:    clock,
		writer:   writer,
		handler:  handler,
		observer: observer,
		logs:     buf,
	}
}

func (f *fixture) collection(t *testing.T, name string) *domain.Collection {
	t.Helper()
	c, err := f.svc.CreateCollection(context.Background(), name)
	require.NoError(t, err)
	return c
}

func (f *fixture) card(t *testing.T, collectionID *uuid.UUID, front string) *domain.Card {
	t.Helper()
	c, err := f.svc.CreateCard(context.Background(), collectionID, front, "back of "+front)
	require.NoError(t, err)
	return c
}

func (f *fixture) review(t *testing.T, cardID uuid.UUID, rating domain.Rating) *domain.ReviewLogEntry {
	t.Helper()
	entry, err := f.svc.CommitReview(context.Background(), cardID, rating, domain.ReviewModeScheduled)
	require.NoError(t, err)
	return entry
}

func (f *fixture) record(t *testing.T, cardID uuid.UUID) *domain.MemoryState {
	t.Helper()
	state, err := f.stores.States.Get(context.Background(), cardID)
	require.NoError(t, err)
	return state
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }
