package domain

import "time"

// MaxSongsPerProfile is the hard ceiling of songs a profile may hold.
const MaxSongsPerProfile = 8

// Profile is a named, owned collection container for songs.
type Profile struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnedBy reports whether the given identity owns this profile.
func (p Profile) OwnedBy(identity string) bool {
	return identity != "" && p.OwnerID == identity
}

// ProfileSong links a Profile to a Song and carries the user's practice
// notes and resource links. The song reference is immutable after creation;
// only Notes and Resources change.
type ProfileSong struct {
	ID        int64             `json:"id"`
	ProfileID int64             `json:"profile_id"`
	SongID    int64             `json:"song_id"`
	Notes     string            `json:"notes"`
	Resources map[string]string `json:"resources"`
	CreatedAt time.Time         `json:"created_at"`
}

// ProfileSongDetail is a ProfileSong joined with its Song row.
type ProfileSongDetail struct {
	ProfileSong
	Song Song `json:"song"`
}

// EnrichedProfileSong is the read-time view served to clients: the
// membership row, its song, and best-effort artwork.
type EnrichedProfileSong struct {
	ProfileSong
	Song EnrichedSong `json:"song"`
}
