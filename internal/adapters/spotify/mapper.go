package spotify

import "github.com/ewilliams-labs/woodshed/internal/core/domain"

// mapTrackToDomain converts a raw Spotify track to a clean domain track.
// Artwork URLs keep the provider's descending-resolution order.
func mapTrackToDomain(st spotifyTrack) domain.Track {
	artists := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		artists = append(artists, a.Name)
	}

	artwork := make([]string, 0, len(st.Album.Images))
	for _, img := range st.Album.Images {
		artwork = append(artwork, img.URL)
	}

	return domain.Track{
		ID:          st.ID,
		Name:        st.Name,
		Artists:     artists,
		Album:       st.Album.Name,
		ArtworkURLs: artwork,
	}
}
