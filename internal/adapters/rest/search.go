package rest

import (
	"net/http"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
)

// Track wire shapes follow the catalog provider's layout so the frontend
// can hand search results straight back to the add-song endpoint.

type artistJSON struct {
	Name string `json:"name"`
}

type imageJSON struct {
	URL string `json:"url"`
}

type albumJSON struct {
	Name   string      `json:"name"`
	Images []imageJSON `json:"images"`
}

type trackJSON struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Artists []artistJSON `json:"artists"`
	Album   albumJSON    `json:"album"`
}

func trackToWire(t domain.Track) trackJSON {
	artists := make([]artistJSON, 0, len(t.Artists))
	for _, name := range t.Artists {
		artists = append(artists, artistJSON{Name: name})
	}
	images := make([]imageJSON, 0, len(t.ArtworkURLs))
	for _, u := range t.ArtworkURLs {
		images = append(images, imageJSON{URL: u})
	}
	return trackJSON{
		ID:      t.ID,
		Name:    t.Name,
		Artists: artists,
		Album:   albumJSON{Name: t.Album, Images: images},
	}
}

func (t trackJSON) toDomain() domain.Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	artwork := make([]string, 0, len(t.Album.Images))
	for _, img := range t.Album.Images {
		artwork = append(artwork, img.URL)
	}
	return domain.Track{
		ID:          t.ID,
		Name:        t.Name,
		Artists:     artists,
		Album:       t.Album.Name,
		ArtworkURLs: artwork,
	}
}

type searchResponse struct {
	Tracks searchTracks `json:"tracks"`
}

type searchTracks struct {
	Items []trackJSON `json:"items"`
}

// Search handles GET /api/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Missing query parameter")
		return
	}

	tracks, err := h.catalog.SearchTracks(r.Context(), query)
	if err != nil {
		h.log.WithError(err).Error("catalog search failed")
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	items := make([]trackJSON, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, trackToWire(t))
	}
	writeJSON(w, http.StatusOK, searchResponse{Tracks: searchTracks{Items: items}})
}
