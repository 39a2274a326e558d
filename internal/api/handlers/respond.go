package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/facilityreservation/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/facilityreservation/pkg/errors"
)

// Envelope is the body of every API response
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondOK(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	respondWithJSON(w, statusCode, Envelope{Success: true, Message: message, Data: data})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, Envelope{Success: false, Message: message})
}

// respondWithAppError maps err to its status. Internal errors are logged and
// their detail is never sent to the client.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}
	respondWithError(w, status, apperrors.MessageOf(err))
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	return nil
}
