package domain

import "time"

// Song is the durable local record for an external catalog track. Exactly
// one Song row exists per distinct external track id; rows are created
// lazily on first reference and never deleted.
type Song struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"spotify_track_id"`
	Name       *string   `json:"name"`
	Artist     *string   `json:"artist"`
	Album      *string   `json:"album"`
	CreatedAt  time.Time `json:"created_at"`
}

// EnrichedSong is a Song plus best-effort artwork resolved from the catalog
// at read time. Never stored.
type EnrichedSong struct {
	Song
	AlbumImageURL *string `json:"album_image_url"`
}
