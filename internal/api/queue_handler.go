package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/render"
	"github.com/phrazzld/scry-srs/internal/service/scheduler"
)

// MaxBatchCollections caps the collection_ids list of a batch stats request.
const MaxBatchCollections = 100

// QueueHandler serves the due and cram queues and deck statistics.
type QueueHandler struct {
	service  scheduler.Service
	markdown *render.Markdown
	logger   *slog.Logger
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(service scheduler.Service, markdown *render.Markdown, logger *slog.Logger) *QueueHandler {
	if service == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("service cannot be nil for QueueHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if markdown == nil {
		markdown = render.NewMarkdown()
	}
	return &QueueHandler{
		service:  service,
		markdown: markdown,
		logger:   logger.With(slog.String("component", "queue_handler")),
	}
}

// GetDue handles GET /api/due.
func (h *QueueHandler) GetDue(w http.ResponseWriter, r *http.Request) {
	collectionID, limit, ok := h.queueParams(w, r)
	if !ok {
		return
	}
	cards, err := h.service.FetchDue(r.Context(), collectionID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch due cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(h.markdown, cards))
}

// GetCram handles GET /api/cram.
func (h *QueueHandler) GetCram(w http.ResponseWriter, r *http.Request) {
	collectionID, limit, ok := h.queueParams(w, r)
	if !ok {
		return
	}
	cards, err := h.service.FetchForCram(r.Context(), collectionID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch cram cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(h.markdown, cards))
}

func (h *QueueHandler) queueParams(w http.ResponseWriter, r *http.Request) (*uuid.UUID, int, bool) {
	collectionID, err := getCollectionQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, 0, false
	}
	limit, err := getLimitQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, 0, false
	}
	return collectionID, limit, true
}

// GetStats handles GET /api/stats. With collection_ids (comma separated) it
// returns a list of per-collection statistics; otherwise the statistics of
// collection_id, or of every card when that is absent.
func (h *QueueHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("collection_ids"); raw != "" {
		h.getStatsBatch(w, r, raw)
		return
	}

	collectionID, err := getCollectionQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	stats, err := h.service.FetchDeckStatistics(r.Context(), collectionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch statistics")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(collectionID, stats))
}

func (h *QueueHandler) getStatsBatch(w http.ResponseWriter, r *http.Request, raw string) {
	parts := strings.Split(raw, ",")
	if len(parts) > MaxBatchCollections {
		HandleAPIError(w, r,
			domain.NewValidationError("collection_ids", "lists too many collections", domain.ErrValidation), "")
		return
	}
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			HandleAPIError(w, r,
				domain.NewValidationError("collection_ids", "has invalid format", domain.ErrInvalidID), "")
			return
		}
		ids = append(ids, id)
	}

	batch, err := h.service.FetchDeckStatisticsBatch(r.Context(), ids)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch statistics")
		return
	}

	out := make([]StatsResponse, 0, len(batch))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		id := id
		stats, ok := batch[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, statsToResponse(&id, stats))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}
