package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
)

const profileSongColumns = `
	ps.id, ps.profile_id, ps.song_id, ps.notes, ps.resources, ps.created_at,
	s.id, s.spotify_track_id, s.name, s.artist, s.album, s.created_at
`

// ListByProfile returns the profile's membership rows joined with their
// songs, newest first.
func (a *Adapter) ListByProfile(ctx context.Context, profileID int64) ([]domain.ProfileSongDetail, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT `+profileSongColumns+`
		FROM profile_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.profile_id = ?
		ORDER BY ps.created_at DESC, ps.id DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile songs: %w", err)
	}
	defer rows.Close()

	details := []domain.ProfileSongDetail{}
	for rows.Next() {
		detail, err := scanProfileSongDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile songs: %w", err)
	}
	return details, nil
}

// GetByID loads one membership row joined with its song.
func (a *Adapter) GetByID(ctx context.Context, id int64) (domain.ProfileSongDetail, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT `+profileSongColumns+`
		FROM profile_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.id = ?
	`, id)
	return scanProfileSongDetail(row)
}

// Exists reports whether the (profile, song) pair is already linked.
func (a *Adapter) Exists(ctx context.Context, profileID, songID int64) (bool, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM profile_songs WHERE profile_id = ? AND song_id = ?
	`, profileID, songID)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

// CountByProfile returns the number of songs linked to the profile.
func (a *Adapter) CountByProfile(ctx context.Context, profileID int64) (int, error) {
	row := a.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM profile_songs WHERE profile_id = ?", profileID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profile songs: %w", err)
	}
	return count, nil
}

// Insert links a song to a profile with empty notes and no resources.
// The unique (profile_id, song_id) index turns a concurrent duplicate add
// into domain.ErrDuplicateSong.
func (a *Adapter) Insert(ctx context.Context, profileID, songID int64) (domain.ProfileSong, error) {
	res, err := a.db.ExecContext(ctx, `
		INSERT INTO profile_songs (profile_id, song_id, notes) VALUES (?, ?, '')
	`, profileID, songID)
	if err != nil {
		if isUniqueConstraint(err) {
			return domain.ProfileSong{}, domain.ErrDuplicateSong
		}
		return domain.ProfileSong{}, fmt.Errorf("failed to insert profile song: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.ProfileSong{}, fmt.Errorf("failed to read inserted profile song id: %w", err)
	}

	detail, err := a.GetByID(ctx, id)
	if err != nil {
		return domain.ProfileSong{}, err
	}
	return detail.ProfileSong, nil
}

// Update applies a partial update. Nil fields keep their stored value; the
// song reference never changes.
func (a *Adapter) Update(ctx context.Context, id int64, notes *string, resources map[string]string) error {
	sets := []string{}
	args := []any{}

	if notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *notes)
	}
	if resources != nil {
		encoded, err := json.Marshal(resources)
		if err != nil {
			return fmt.Errorf("failed to encode resources: %w", err)
		}
		sets = append(sets, "resources = ?")
		args = append(args, string(encoded))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	res, err := a.db.ExecContext(ctx, "UPDATE profile_songs SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update profile song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update profile song: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a membership row. Deleting an absent row is ErrNotFound;
// the song row itself is never touched.
func (a *Adapter) Delete(ctx context.Context, id int64) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM profile_songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete profile song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete profile song: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProfileSongDetail(row rowScanner) (domain.ProfileSongDetail, error) {
	var detail domain.ProfileSongDetail
	var resources sql.NullString
	var name, artist, album sql.NullString

	if err := row.Scan(
		&detail.ID,
		&detail.ProfileID,
		&detail.SongID,
		&detail.Notes,
		&resources,
		&detail.CreatedAt,
		&detail.Song.ID,
		&detail.Song.ExternalID,
		&name,
		&artist,
		&album,
		&detail.Song.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.ProfileSongDetail{}, domain.ErrNotFound
		}
		return domain.ProfileSongDetail{}, fmt.Errorf("failed to scan profile song: %w", err)
	}

	if resources.Valid && resources.String != "" {
		if err := json.Unmarshal([]byte(resources.String), &detail.Resources); err != nil {
			return domain.ProfileSongDetail{}, fmt.Errorf("failed to decode resources: %w", err)
		}
	}
	if name.Valid {
		detail.Song.Name = &name.String
	}
	if artist.Valid {
		detail.Song.Artist = &artist.String
	}
	if album.Valid {
		detail.Song.Album = &album.String
	}

	return detail, nil
}
