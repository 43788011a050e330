package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"eventfinder/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeInternalError = "internal_error"
)

// Client-facing messages shared by controllers and middleware.
const (
	MsgDuplicateEmail     = "User with such email already exist"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUnauthorized       = "Unauthorized"
	MsgForbiddenEvent     = "You are not allowed to modify this event"
	MsgEventNotFound      = "Event not found"
	MsgNoCoordinates      = "Event does not have coordinates"
	MsgInternalError      = "Internal server error"
)

// ErrorResponse is the body of every error response.
// swagger:model ErrorResponse
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and encodes data.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONError writes an ErrorResponse with the given status, code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		StatusCode: statusCode,
		Error:      code,
		Message:    message,
	})
}

// WriteServiceError maps a service error to its HTTP status. Unclassified errors
// are logged and answered with a generic 500 so internal detail never reaches the client.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, MsgDuplicateEmail)
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, MsgInvalidCredentials)
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, MsgUnauthorized)
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, MsgForbiddenEvent)
	case errors.Is(err, domain.ErrNoCoordinates):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, MsgNoCoordinates)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, MsgEventNotFound)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, MsgInternalError)
	}
}
