package rest

import (
	"encoding/json"
	"net/http"
)

// ListProfiles handles GET /api/profiles
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	identity := h.identity(r)
	if identity == "" {
		writeError(w, http.StatusBadRequest, "Missing user identity")
		return
	}

	profiles, err := h.svc.ListProfiles(r.Context(), identity)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, profiles)
}

type renameProfileRequest struct {
	Name string `json:"name"`
}

// RenameProfile handles PUT /api/profiles/{profileID}
func (h *Handler) RenameProfile(w http.ResponseWriter, r *http.Request) {
	identity := h.identity(r)
	if identity == "" {
		writeError(w, http.StatusBadRequest, "Missing user identity")
		return
	}

	profileID, ok := pathID(r, "profileID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid profile id")
		return
	}

	var req renameProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Profile name is required")
		return
	}

	profile, err := h.svc.RenameProfile(r.Context(), identity, profileID, req.Name)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, profile)
}
