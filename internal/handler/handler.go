package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error to an HTTP status. Unrecognised
// errors are treated as a store failure: the caller may retry with the same
// inputs.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusServiceUnavailable, model.ErrCodeStoreUnavailable, model.ErrStoreUnavailable.Message, logger)
		return
	}

	status := http.StatusBadRequest
	switch domainErr.Code {
	case model.ErrCodeLineNotFound, model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound:
		status = http.StatusNotFound
	case model.ErrCodeUnauthorised:
		status = http.StatusForbidden
	case model.ErrCodeInvalidTransition:
		status = http.StatusConflict
	case model.ErrCodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	}

	writeError(w, status, domainErr.Code, domainErr.Message, logger)
}
