package ports

import (
	"context"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
)

// SongRepository maps external catalog tracks to durable Song rows.
type SongRepository interface {
	// EnsureSong returns the id of the Song matching the track's external
	// id, creating the row if absent. Idempotent under concurrent calls:
	// a duplicate-insert conflict resolves to the winner's row.
	EnsureSong(ctx context.Context, t domain.Track) (int64, error)
}

// ProfileRepository persists profile containers.
type ProfileRepository interface {
	GetProfile(ctx context.Context, id int64) (domain.Profile, error)
	ListProfiles(ctx context.Context, ownerID string) ([]domain.Profile, error)
	CreateProfile(ctx context.Context, ownerID string, name *string) (domain.Profile, error)
	RenameProfile(ctx context.Context, id int64, name string) (domain.Profile, error)
}

// ProfileSongRepository persists profile membership rows.
type ProfileSongRepository interface {
	// ListByProfile returns the profile's songs newest first.
	ListByProfile(ctx context.Context, profileID int64) ([]domain.ProfileSongDetail, error)
	GetByID(ctx context.Context, id int64) (domain.ProfileSongDetail, error)
	Exists(ctx context.Context, profileID, songID int64) (bool, error)
	CountByProfile(ctx context.Context, profileID int64) (int, error)
	// Insert creates a membership row with empty notes and no resources.
	// Returns domain.ErrDuplicateSong if the (profile, song) pair exists.
	Insert(ctx context.Context, profileID, songID int64) (domain.ProfileSong, error)
	// Update applies a partial update: nil fields keep their prior value.
	Update(ctx context.Context, id int64, notes *string, resources map[string]string) error
	Delete(ctx context.Context, id int64) error
}
