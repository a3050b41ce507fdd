package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/scry-srs/internal/api/middleware"
	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/render"
	"github.com/phrazzld/scry-srs/internal/service/scheduler"
)

// RouterConfig holds the dependencies of the HTTP router. Service is
// required; the rest are optional.
type RouterConfig struct {
	Service scheduler.Service
	Logger  *slog.Logger

	// Metrics serves GET /metrics when set.
	Metrics http.Handler
	// Observer records every request when set.
	Observer apiMiddleware.HTTPObserver
	// Health is probed by GET /health.
	Health func(ctx context.Context) error
	// RequestTimeout bounds each request. Zero disables the timeout.
	RequestTimeout time.Duration
}

// NewRouter builds the chi router with every route and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	md := render.NewMarkdown()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	if cfg.Observer != nil {
		r.Use(apiMiddleware.NewMetricsMiddleware(cfg.Observer))
	}

	cardHandler := NewCardHandler(cfg.Service, md, cfg.Logger)
	collectionHandler := NewCollectionHandler(cfg.Service, cfg.Logger)
	queueHandler := NewQueueHandler(cfg.Service, md, cfg.Logger)
	exportHandler := NewExportHandler(cfg.Service, cfg.Logger)

	r.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		}

		r.Get("/due", queueHandler.GetDue)
		r.Get("/cram", queueHandler.GetCram)
		r.Get("/stats", queueHandler.GetStats)

		r.Post("/collections", collectionHandler.CreateCollection)
		r.Get("/collections", collectionHandler.ListCollections)
		r.Delete("/collections/{id}", collectionHandler.DeleteCollection)

		r.Post("/cards", cardHandler.CreateCard)
		r.Get("/cards/{id}", cardHandler.GetCard)
		r.Delete("/cards/{id}", cardHandler.DeleteCard)
		r.Post("/cards/{id}/reviews", cardHandler.SubmitReview)
		r.Get("/cards/{id}/preview", cardHandler.PreviewReview)
		r.Post("/cards/{id}/reset", cardHandler.ResetCard)
		r.Get("/cards/{id}/history", cardHandler.GetHistory)

		r.Get("/export/history", exportHandler.ExportHistory)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Unhealthy", err)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			cfg.Logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	return r
}
