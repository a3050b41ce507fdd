package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/render"
	"github.com/phrazzld/scry-srs/internal/service/scheduler"
)

// CardHandler handles card, review and history requests.
type CardHandler struct {
	service  scheduler.Service
	markdown *render.Markdown
	logger   *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(service scheduler.Service, markdown *render.Markdown, logger *slog.Logger) *CardHandler {
	if service == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("service cannot be nil for CardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if markdown == nil {
		markdown = render.NewMarkdown()
	}
	return &CardHandler{
		service:  service,
		markdown: markdown,
		logger:   logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /api/cards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	card, err := h.service.CreateCard(r.Context(), req.CollectionID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	log.Debug("card created", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(h.markdown, card))
}

// GetCard handles GET /api/cards/{id}. The response includes the card's
// scheduling state.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	detail, err := h.service.CardDetail(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detailToResponse(h.markdown, detail))
}

// DeleteCard handles DELETE /api/cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.service.DeleteCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("card deleted",
		slog.String("card_id", cardID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// SubmitReview handles POST /api/cards/{id}/reviews.
func (h *CardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	mode := domain.ReviewModeScheduled
	if req.Mode != "" {
		mode = domain.ReviewMode(req.Mode)
	}

	entry, err := h.service.CommitReview(r.Context(), cardID, domain.Rating(*req.Rating), mode)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	log.Debug("review submitted",
		slog.String("card_id", cardID.String()),
		slog.String("rating", entry.Rating.String()),
		slog.String("mode", string(entry.Mode)))
	shared.RespondWithJSON(w, r, http.StatusCreated, entryToResponse(entry))
}

// PreviewReview handles GET /api/cards/{id}/preview.
func (h *CardHandler) PreviewReview(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	preview, err := h.service.Preview(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to preview card")
		return
	}

	due := make(map[string]time.Time, len(preview))
	for rating, at := range preview {
		due[rating.Label()] = at
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PreviewResponse{CardID: cardID, Due: due})
}

// ResetCard handles POST /api/cards/{id}/reset.
func (h *CardHandler) ResetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.service.Reset(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to reset card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHistory handles GET /api/cards/{id}/history.
func (h *CardHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	rows, err := h.service.History(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get history")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, historyToResponse(rows))
}
