package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"restaurant-storefront/internal/models"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an error response in JSON format.
func WriteError(w http.ResponseWriter, statusCode int, message, requestID string) {
	WriteJSON(w, statusCode, map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	})
}

// WriteDomainError maps the shared sentinel errors to HTTP status codes.
// Unknown errors become opaque 500s so internals never leak to clients.
func WriteDomainError(w http.ResponseWriter, err error, requestID string) {
	if ve, ok := models.AsValidationError(err); ok {
		WriteError(w, http.StatusBadRequest, ve.Error(), requestID)
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not found", requestID)
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", requestID)
	case errors.Is(err, models.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid credentials", requestID)
	case errors.Is(err, models.ErrEmailInUse):
		WriteError(w, http.StatusConflict, "email already in use", requestID)
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrInvalidPayload):
		WriteError(w, http.StatusBadRequest, err.Error(), requestID)
	default:
		WriteError(w, http.StatusInternalServerError, "internal server error", requestID)
	}
}

// DecodeJSON parses a request body, rejecting unknown fields.
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
