package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeData wraps a payload in the { success, data } envelope.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successResponse{Success: true, Data: data})
}

func isJSONContentType(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// writeDomainError maps core errors to HTTP responses. Unrecognized errors
// are logged and surfaced as a generic 500 without internal detail.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "You do not own this profile")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrDuplicateSong):
		writeError(w, http.StatusBadRequest, "Song already exists in this profile")
	case errors.Is(err, domain.ErrProfileFull):
		writeError(w, http.StatusBadRequest, "8 songs maximum")
	default:
		h.log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
