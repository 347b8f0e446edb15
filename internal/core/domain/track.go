package domain

// Track is the ephemeral catalog representation of a piece of music as
// returned by the external provider. It is never persisted directly; it
// seeds or matches a Song.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album,omitempty"`
	ArtworkURLs []string `json:"artwork_urls,omitempty"` // descending resolution
}

// PrimaryArtist returns the first listed artist, or "" when none exist.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}
