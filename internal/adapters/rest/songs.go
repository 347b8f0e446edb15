package rest

import (
	"encoding/json"
	"net/http"
)

// ListSongs handles GET /api/profiles/{profileID}/songs
func (h *Handler) ListSongs(w http.ResponseWriter, r *http.Request) {
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

	songs, err := h.svc.ListSongs(r.Context(), identity, profileID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, songs)
}

type addSongRequest struct {
	ProfileID int64      `json:"profileId"`
	Track     *trackJSON `json:"track"`
}

// AddSong handles POST /api/add-song-to-profile
func (h *Handler) AddSong(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	identity := h.identity(r)
	if identity == "" {
		writeError(w, http.StatusBadRequest, "Missing user identity")
		return
	}

	var req addSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProfileID <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid profile id")
		return
	}
	if req.Track == nil || req.Track.ID == "" {
		writeError(w, http.StatusBadRequest, "Missing track id")
		return
	}

	member, err := h.svc.AddSong(r.Context(), identity, req.ProfileID, req.Track.toDomain())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusCreated, member)
}

type updateSongRequest struct {
	Notes     *string           `json:"notes"`
	Resources map[string]string `json:"resources"`
}

// UpdateSong handles PUT /api/profiles/{profileID}/songs/{profileSongID}.
// Omitted fields keep their stored value.
func (h *Handler) UpdateSong(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

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
	profileSongID, ok := pathID(r, "profileSongID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid profile song id")
		return
	}

	var req updateSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.svc.UpdateSong(r.Context(), identity, profileID, profileSongID, req.Notes, req.Resources)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, updated)
}

// DeleteSong handles DELETE /api/profiles/{profileID}/songs/{profileSongID}
func (h *Handler) DeleteSong(w http.ResponseWriter, r *http.Request) {
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
	profileSongID, ok := pathID(r, "profileSongID")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid profile song id")
		return
	}

	if err := h.svc.RemoveSong(r.Context(), identity, profileID, profileSongID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}
