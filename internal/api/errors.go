package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskmart-api/internal/api/shared"
	"github.com/phrazzld/taskmart-api/internal/domain"
	"github.com/phrazzld/taskmart-api/internal/store"
)

// Fixed client-facing messages.
const (
	MsgInvalidRequestBody = "Invalid request body"
	MsgTaskNotFound       = "Task not found"
	MsgInvalidEntity      = "Invalid entity data"
	MsgInternalError      = "Internal Server Error"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	case err == nil:
		return http.StatusOK

	// Bad request errors
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Only validation messages, which are fixed strings
// chosen by the domain, are passed through.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgInternalError
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message

	case errors.Is(err, domain.ErrInvalidID):
		return domain.MsgInvalidTaskID

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, store.ErrInvalidEntity):
		return MsgInvalidEntity

	// Users are never looked up by id, so every not-found surfaced over
	// HTTP concerns a task.
	case errors.Is(err, store.ErrNotFound):
		return MsgTaskNotFound

	default:
		return MsgInternalError
	}
}

// HandleAPIError writes the error response for err. When the error maps to a
// 500, fallback (if non-empty) replaces the generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
