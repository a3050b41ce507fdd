package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/export"
	"github.com/phrazzld/scry-srs/internal/platform/logger"
	"github.com/phrazzld/scry-srs/internal/service/scheduler"
)

// ExportHandler streams review history as a file download.
type ExportHandler struct {
	service scheduler.Service
	logger  *slog.Logger
	now     func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(service scheduler.Service, logger *slog.Logger) *ExportHandler {
	if service == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("service cannot be nil for ExportHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportHandler{
		service: service,
		logger:  logger.With(slog.String("component", "export_handler")),
		now:     time.Now,
	}
}

// ExportHistory handles GET /api/export/history?format=csv|xlsx.
func (h *ExportHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid format: must be csv or xlsx", err)
		return
	}
	collectionID, err := getCollectionQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	rows, err := h.service.ExportHistory(r.Context(), collectionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export history")
		return
	}

	// Render fully before writing headers so a failure still gets a JSON error.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to export history", err)
		return
	}

	filename := format.Filename("review-history-" + h.now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("failed to write export",
			slog.String("error", err.Error()))
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("history exported",
		slog.String("format", string(format)),
		slog.Int("rows", len(rows)))
}
