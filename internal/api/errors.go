package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-srs/internal/api/shared"
	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/service/scheduler"
	"github.com/phrazzld/scry-srs/internal/task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, scheduler.ErrCardNotFound),
		errors.Is(err, scheduler.ErrCollectionNotFound):
		return http.StatusNotFound

	case errors.Is(err, scheduler.ErrInvalidInput),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	case errors.Is(err, task.ErrWriterClosed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, scheduler.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, scheduler.ErrCollectionNotFound):
		return "Collection not found"
	case errors.Is(err, scheduler.ErrInvalidMode):
		return "Invalid review mode"
	case errors.Is(err, scheduler.ErrInvalidInput),
		errors.Is(err, domain.ErrValidation):
		return "Invalid input"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, task.ErrWriterClosed):
		return "Service is shutting down"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a short message that
// names the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for a service error. A non-empty
// message replaces the default safe message for 5xx responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	safe := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && message != "" {
		safe = message
	}
	var verr *domain.ValidationError
	if status == http.StatusBadRequest && errors.As(err, &verr) {
		safe = SanitizeValidationError(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, safe, err)
}
