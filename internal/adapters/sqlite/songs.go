package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
)

// EnsureSong returns the id of the Song row matching the track's external
// id, inserting one if absent. The lookup-then-insert is unlocked: two
// concurrent callers can both miss and race the insert, so the loser's
// unique-constraint violation is recovered by re-reading the winner's row.
func (a *Adapter) EnsureSong(ctx context.Context, t domain.Track) (int64, error) {
	if t.ID == "" {
		return 0, fmt.Errorf("failed to ensure song: empty external track id")
	}

	id, err := a.songIDByExternalID(ctx, t.ID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}

	res, err := a.db.ExecContext(ctx, `
		INSERT INTO songs (spotify_track_id, name, artist, album)
		VALUES (?, ?, ?, ?)
	`, t.ID, nullString(t.Name), nullString(t.PrimaryArtist()), nullString(t.Album))
	if err != nil {
		if isUniqueConstraint(err) {
			// Lost the race; the winner's row is authoritative.
			return a.songIDByExternalID(ctx, t.ID)
		}
		return 0, fmt.Errorf("failed to insert song: %w", err)
	}

	newID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted song id: %w", err)
	}
	return newID, nil
}

func (a *Adapter) songIDByExternalID(ctx context.Context, externalID string) (int64, error) {
	row := a.db.QueryRowContext(ctx, "SELECT id FROM songs WHERE spotify_track_id = ?", externalID)
	var id int64
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("failed to load song: %w", err)
	}
	return id, nil
}
