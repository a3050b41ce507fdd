package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-srs/internal/domain"
)

// MaxLimit caps the limit query parameter.
const MaxLimit = 1000

// getPathUUID parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}
	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// getCollectionQuery parses the optional collection_id query parameter.
// Absent means every card.
func getCollectionQuery(r *http.Request) (*uuid.UUID, error) {
	raw := r.URL.Query().Get("collection_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError("collection_id", "has invalid format", domain.ErrInvalidID)
	}
	return &id, nil
}

// getLimitQuery parses the optional limit query parameter. Absent or 0
// means the service default.
func getLimitQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > MaxLimit {
		return 0, domain.NewValidationError("limit", "must be between 0 and 1000", domain.ErrValidation)
	}
	return n, nil
}
