package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
	"github.com/ewilliams-labs/woodshed/internal/core/ports"
)

// Collection coordinates profile membership rules over the song and
// profile repositories. Every operation authorizes the caller against the
// profile's owner before touching any data.
type Collection struct {
	songs    ports.SongRepository
	profiles ports.ProfileRepository
	members  ports.ProfileSongRepository
	enricher *Enricher
	log      *logrus.Logger
}

// NewCollection constructs a Collection.
func NewCollection(songs ports.SongRepository, profiles ports.ProfileRepository, members ports.ProfileSongRepository, enricher *Enricher, log *logrus.Logger) *Collection {
	if log == nil {
		log = logrus.New()
	}
	return &Collection{
		songs:    songs,
		profiles: profiles,
		members:  members,
		enricher: enricher,
		log:      log,
	}
}

// authorize loads the profile and verifies the caller owns it. It runs
// before any read or mutation in every operation.
func (c *Collection) authorize(ctx context.Context, identity string, profileID int64) (domain.Profile, error) {
	profile, err := c.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service: load profile: %w", err)
	}
	if !profile.OwnedBy(identity) {
		return domain.Profile{}, fmt.Errorf("service: profile %d: %w", profileID, domain.ErrNotAuthorized)
	}
	return profile, nil
}

// ListProfiles returns the caller's profiles.
func (c *Collection) ListProfiles(ctx context.Context, identity string) ([]domain.Profile, error) {
	profiles, err := c.profiles.ListProfiles(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("service: list profiles: %w", err)
	}
	return profiles, nil
}

// ListSongs returns the profile's songs newest first, enriched with
// artwork where the catalog cooperates.
func (c *Collection) ListSongs(ctx context.Context, identity string, profileID int64) ([]domain.EnrichedProfileSong, error) {
	if _, err := c.authorize(ctx, identity, profileID); err != nil {
		return nil, err
	}

	rows, err := c.members.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("service: list profile songs: %w", err)
	}

	return c.enricher.EnrichAll(ctx, rows), nil
}

// AddSong resolves the track to a Song row and links it to the profile.
// The steps run strictly in order; the first failing check short-circuits.
// A Song row created in step 2 survives a later check failure — songs are
// shared and idempotent, so the orphan is benign.
func (c *Collection) AddSong(ctx context.Context, identity string, profileID int64, track domain.Track) (domain.ProfileSong, error) {
	// 1. Authorize
	if _, err := c.authorize(ctx, identity, profileID); err != nil {
		return domain.ProfileSong{}, err
	}

	// 2. Resolve the track to a durable Song row
	songID, err := c.songs.EnsureSong(ctx, track)
	if err != nil {
		return domain.ProfileSong{}, fmt.Errorf("service: ensure song: %w", err)
	}

	// 3. Membership check
	exists, err := c.members.Exists(ctx, profileID, songID)
	if err != nil {
		return domain.ProfileSong{}, fmt.Errorf("service: membership check: %w", err)
	}
	if exists {
		return domain.ProfileSong{}, fmt.Errorf("service: profile %d song %d: %w", profileID, songID, domain.ErrDuplicateSong)
	}

	// 4. Capacity check
	count, err := c.members.CountByProfile(ctx, profileID)
	if err != nil {
		return domain.ProfileSong{}, fmt.Errorf("service: capacity check: %w", err)
	}
	if count >= domain.MaxSongsPerProfile {
		return domain.ProfileSong{}, fmt.Errorf("service: profile %d: %w", profileID, domain.ErrProfileFull)
	}

	// 5. Insert. The unique (profile_id, song_id) index backs up step 3
	// against concurrent adds.
	member, err := c.members.Insert(ctx, profileID, songID)
	if err != nil {
		return domain.ProfileSong{}, fmt.Errorf("service: insert profile song: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"profile_id": profileID,
		"song_id":    songID,
	}).Info("song added to profile")

	return member, nil
}

// RemoveSong deletes a membership row. Removing an id that is absent or
// belongs to another profile fails with domain.ErrNotFound.
func (c *Collection) RemoveSong(ctx context.Context, identity string, profileID, profileSongID int64) error {
	if _, err := c.authorize(ctx, identity, profileID); err != nil {
		return err
	}

	if _, err := c.memberOfProfile(ctx, profileID, profileSongID); err != nil {
		return err
	}

	if err := c.members.Delete(ctx, profileSongID); err != nil {
		return fmt.Errorf("service: delete profile song: %w", err)
	}
	return nil
}

// UpdateSong applies a partial update to notes and/or resources. Nil
// fields keep their stored value. Returns the refreshed, re-enriched row.
func (c *Collection) UpdateSong(ctx context.Context, identity string, profileID, profileSongID int64, notes *string, resources map[string]string) (domain.EnrichedProfileSong, error) {
	if _, err := c.authorize(ctx, identity, profileID); err != nil {
		return domain.EnrichedProfileSong{}, err
	}

	if _, err := c.memberOfProfile(ctx, profileID, profileSongID); err != nil {
		return domain.EnrichedProfileSong{}, err
	}

	if err := c.members.Update(ctx, profileSongID, notes, resources); err != nil {
		return domain.EnrichedProfileSong{}, fmt.Errorf("service: update profile song: %w", err)
	}

	refreshed, err := c.members.GetByID(ctx, profileSongID)
	if err != nil {
		return domain.EnrichedProfileSong{}, fmt.Errorf("service: reload profile song: %w", err)
	}

	return c.enricher.Enrich(ctx, refreshed), nil
}

// RenameProfile updates the profile's display name.
func (c *Collection) RenameProfile(ctx context.Context, identity string, profileID int64, name string) (domain.Profile, error) {
	if _, err := c.authorize(ctx, identity, profileID); err != nil {
		return domain.Profile{}, err
	}

	profile, err := c.profiles.RenameProfile(ctx, profileID, name)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("service: rename profile: %w", err)
	}
	return profile, nil
}

// memberOfProfile loads a membership row and verifies it belongs to the
// given profile. A row owned by a different profile reads as not found.
func (c *Collection) memberOfProfile(ctx context.Context, profileID, profileSongID int64) (domain.ProfileSongDetail, error) {
	row, err := c.members.GetByID(ctx, profileSongID)
	if err != nil {
		return domain.ProfileSongDetail{}, fmt.Errorf("service: load profile song: %w", err)
	}
	if row.ProfileID != profileID {
		return domain.ProfileSongDetail{}, fmt.Errorf("service: profile song %d: %w", profileSongID, domain.ErrNotFound)
	}
	return row, nil
}
