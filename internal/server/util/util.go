package util

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nptc-feedback/backend/internal/shared"
)

// ErrorBody is the structured error payload returned by every failing
// endpoint. SuggestedAction carries a remediation hint for store
// connectivity failures; internal details never appear here.
type ErrorBody struct {
	Error           string `json:"error"`
	SuggestedAction string `json:"suggestedAction,omitempty"`
}

// WriteJSON writes a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("ERROR: writing JSON response: %v", err)
	}
}

// WriteError writes a structured error payload.
func WriteError(w http.ResponseWriter, status int, message, suggestedAction string) {
	log.Printf("HTTP Error %d: %s", status, message)
	WriteJSON(w, status, ErrorBody{Error: message, SuggestedAction: suggestedAction})
}

// HandleServiceError maps a service error onto an HTTP status and payload.
// Only the short message and remediation hint leave the process; wrapped
// causes stay in the server log.
func HandleServiceError(w http.ResponseWriter, err error) {
	var serviceErr *shared.Error
	message := "Internal server error"
	suggestion := ""
	status := http.StatusInternalServerError

	if !errors.As(err, &serviceErr) {
		log.Printf("ERROR: unclassified error: %v", err)
		WriteError(w, status, message, suggestion)
		return
	}

	switch serviceErr.Kind {
	case shared.KindValidation:
		status = http.StatusBadRequest
	case shared.KindUnauthorized:
		status = http.StatusUnauthorized
	case shared.KindForbidden:
		status = http.StatusForbidden
	case shared.KindNotFound:
		status = http.StatusNotFound
	case shared.KindTransient, shared.KindPersistence:
		status = http.StatusInternalServerError
	}

	if serviceErr.Err != nil {
		log.Printf("ERROR: %v", serviceErr.Err)
	}
	WriteError(w, status, serviceErr.Message, serviceErr.SuggestedAction)
}
