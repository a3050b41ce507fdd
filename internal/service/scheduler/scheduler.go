package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/phrazzld/scry-srs/internal/events"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/statscache"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/phrazzld/scry-srs/internal/task"
)

// DefaultLimit caps FetchDue and FetchForCram when the caller passes no limit.
const DefaultLimit = 50

// CacheObserver is notified of every stats cache lookup.
type CacheObserver interface {
	ObserveCacheLookup(hit bool)
}

// Dependencies are the collaborators of a Scheduler. Stores, Writer and
// Cache are required.
type Dependencies struct {
	Stores        store.Stores
	Engine        srs.Engine
	Writer        task.Executor
	Cache         *statscache.Cache
	Events        events.EventEmitter
	CacheObserver CacheObserver
	Logger        *slog.Logger
}

// Config tunes a Scheduler.
type Config struct {
	DefaultLimit int
	DeletePolicy domain.DeletePolicy
	// Clock returns the current time. Nil uses the UTC wall clock.
	Clock func() time.Time
}

// Scheduler implements Service on top of the store, the forgetting-curve
// engine, the single writer and the stats cache.
type Scheduler struct {
	stores       store.Stores
	engine       srs.Engine
	writer       task.Executor
	cache        *statscache.Cache
	events       events.EventEmitter
	cacheObs     CacheObserver
	logger       *slog.Logger
	defaultLimit int
	deletePolicy domain.DeletePolicy
	now          func() time.Time
}

var _ Service = (*Scheduler)(nil)

// New creates a Scheduler. A nil engine uses the default parameters; a nil
// emitter discards events.
func New(deps Dependencies, cfg Config) (*Scheduler, error) {
	if deps.Stores.DB == nil || deps.Stores.Cards == nil || deps.Stores.Collections == nil ||
		deps.Stores.States == nil || deps.Stores.Logs == nil {
		return nil, errors.New("scheduler: every store is required")
	}
	if deps.Writer == nil {
		return nil, errors.New("scheduler: writer is required")
	}
	if deps.Cache == nil {
		return nil, errors.New("scheduler: stats cache is required")
	}

	if deps.Engine == nil {
		deps.Engine = srs.NewDefaultEngine()
	}
	if deps.Events == nil {
		deps.Events = events.NoopEmitter{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.DeletePolicy == "" {
		cfg.DeletePolicy = domain.DeletePolicyDetach
	}
	if !cfg.DeletePolicy.IsValid() {
		return nil, fmt.Errorf("scheduler: unknown delete policy %q", cfg.DeletePolicy)
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}

	return &Scheduler{
		stores:       deps.Stores,
		engine:       deps.Engine,
		writer:       deps.Writer,
		cache:        deps.Cache,
		events:       deps.Events,
		cacheObs:     deps.CacheObserver,
		logger:       deps.Logger.With(slog.String("component", "scheduler")),
		defaultLimit: cfg.DefaultLimit,
		deletePolicy: cfg.DeletePolicy,
		now:          cfg.Clock,
	}, nil
}

// inTx runs fn in one store transaction. Callers are already on the writer.
func (s *Scheduler) inTx(ctx context.Context, fn func(ctx context.Context, tx store.Stores) error) error {
	return s.stores.RunInTx(ctx, fn)
}

func (s *Scheduler) limit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	return limit
}

// mapStoreError turns store sentinels into scheduler sentinels.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrCardNotFound):
		return ErrCardNotFound
	case errors.Is(err, store.ErrCollectionNotFound):
		return ErrCollectionNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// fail logs and wraps err for op. Expected conditions pass through as
// sentinels; everything else becomes a ServiceError.
func (s *Scheduler) fail(ctx context.Context, op, message string, err error, attrs ...any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	mapped := mapStoreError(err)
	switch {
	case errors.Is(mapped, ErrCardNotFound),
		errors.Is(mapped, ErrCollectionNotFound),
		errors.Is(mapped, ErrInvalidInput),
		errors.Is(mapped, context.Canceled),
		errors.Is(mapped, context.DeadlineExceeded):
		log.Debug(message, append(attrs, slog.String("operation", op), slog.String("error", mapped.Error()))...)
		return mapped
	}
	log.Error(message, append(attrs, slog.String("operation", op), slog.String("error", err.Error()))...)
	return NewServiceError(op, message, err)
}

// emit publishes an event. Handler failures are logged, never returned.
func (s *Scheduler) emit(ctx context.Context, eventType string, payload any) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		log.Warn("failed to build event", slog.String("event_type", eventType), slog.String("error", err.Error()))
		return
	}
	if err := s.events.EmitEvent(ctx, event); err != nil {
		log.Warn("event handler failed", slog.String("event_type", eventType), slog.String("error", err.Error()))
	}
}
