package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-srs/internal/api"
	"github.com/phrazzld/scry-srs/internal/config"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/domain/srs"
	"github.com/phrazzld/scry-srs/internal/events"
	"github.com/phrazzld/scry-srs/internal/platform/metrics"
	"github.com/phrazzld/scry-srs/internal/redact"
	"github.com/phrazzld/scry-srs/internal/service/scheduler"
	"github.com/phrazzld/scry-srs/internal/statscache"
	"github.com/phrazzld/scry-srs/internal/task"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	writer    *task.Writer
	metrics   *metrics.Metrics
	scheduler *scheduler.Scheduler
}

// newApplication opens and migrates the database and wires the scheduler.
// On error every resource opened so far is released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &application{config: cfg, logger: logger}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	app.db, err = openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = migrateDatabase(ctx, cfg.Database.Driver, app.db, logger); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	stores, err := newStores(cfg.Database.Driver, app.db, logger)
	if err != nil {
		return nil, err
	}

	params, err := srs.NewParams(srs.ParamsConfig{
		Weights:             cfg.Scheduler.Weights,
		DesiredRetention:    cfg.Scheduler.DesiredRetention,
		MaximumIntervalDays: cfg.Scheduler.MaximumIntervalDays,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler parameters: %w", err)
	}
	engine, err := srs.NewEngine(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	app.metrics = metrics.New()

	app.writer = task.NewWriter(task.WriterConfig{QueueSize: cfg.Scheduler.WriterQueueSize}, logger)
	app.writer.SetObserver(app.metrics)
	app.writer.Start()

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(app.metrics)
	emitter.RegisterHandler(newAuditHandler(logger))

	app.scheduler, err = scheduler.New(scheduler.Dependencies{
		Stores:        stores,
		Engine:        engine,
		Writer:        app.writer,
		Cache:         statscache.New(statscache.WithTTL(cfg.Scheduler.StatsCacheTTL)),
		Events:        emitter,
		CacheObserver: app.metrics,
		Logger:        logger,
	}, scheduler.Config{
		DefaultLimit: cfg.Scheduler.DefaultLimit,
		DeletePolicy: domain.DeletePolicy(cfg.Collections.DeletePolicy),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	logger.Info("application initialized",
		slog.String("driver", cfg.Database.Driver),
		slog.String("database", redact.DSN(cfg.Database.URL)),
		slog.String("delete_policy", cfg.Collections.DeletePolicy),
		slog.Float64("desired_retention", params.DesiredRetention))
	return app, nil
}

// router builds the HTTP handler for the application.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Service:  app.scheduler,
		Logger:   app.logger,
		Metrics:  app.metrics.Handler(),
		Observer: app.metrics,
		Health:   app.db.PingContext,

		RequestTimeout: app.config.Server.RequestTimeout,
	})
}

// cleanup stops the writer, draining queued jobs, then closes the database.
func (app *application) cleanup() {
	if app.writer != nil {
		app.writer.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}

// auditHandler logs every committed mutation at info level.
type auditHandler struct {
	logger *slog.Logger
}

func newAuditHandler(logger *slog.Logger) *auditHandler {
	return &auditHandler{logger: logger.With(slog.String("component", "audit"))}
}

// HandleEvent implements events.EventHandler.
func (h *auditHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.logger.InfoContext(ctx, "mutation committed",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.String("payload", string(event.Payload)))
	return nil
}
