package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/service/scheduler"
)

// CollectionHandler handles collection requests.
type CollectionHandler struct {
	service scheduler.Service
	logger  *slog.Logger
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(service scheduler.Service, logger *slog.Logger) *CollectionHandler {
	if service == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("service cannot be nil for CollectionHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionHandler{
		service: service,
		logger:  logger.With(slog.String("component", "collection_handler")),
	}
}

// CreateCollection handles POST /api/collections.
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	collection, err := h.service.CreateCollection(r.Context(), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create collection")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, collectionToResponse(collection))
}

// ListCollections handles GET /api/collections.
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.service.ListCollections(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list collections")
		return
	}

	out := make([]CollectionResponse, len(collections))
	for i, c := range collections {
		out[i] = collectionToResponse(c)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// DeleteCollection handles DELETE /api/collections/{id}.
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	touched, err := h.service.DeleteCollection(r.Context(), collectionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete collection")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("collection deleted",
		slog.String("collection_id", collectionID.String()),
		slog.Int("cards_touched", touched))
	shared.RespondWithJSON(w, r, http.StatusOK, DeleteCollectionResponse{CardsTouched: touched})
}
