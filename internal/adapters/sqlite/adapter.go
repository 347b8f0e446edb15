// Package sqlite provides the SQLite-backed implementation of the
// repository ports.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/ewilliams-labs/woodshed/internal/core/ports"
)

// Adapter implements the repository ports for SQLite.
type Adapter struct {
	db *sql.DB
}

var (
	_ ports.SongRepository        = (*Adapter)(nil)
	_ ports.ProfileRepository     = (*Adapter)(nil)
	_ ports.ProfileSongRepository = (*Adapter)(nil)
)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS songs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		spotify_track_id TEXT NOT NULL UNIQUE,
		name TEXT,
		artist TEXT,
		album TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id TEXT NOT NULL,
		name TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS profile_songs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id INTEGER NOT NULL,
		song_id INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		resources TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (profile_id, song_id),
		FOREIGN KEY(profile_id) REFERENCES profiles(id) ON DELETE CASCADE,
		FOREIGN KEY(song_id) REFERENCES songs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_profile_songs_profile ON profile_songs(profile_id);
	CREATE INDEX IF NOT EXISTS idx_profiles_owner ON profiles(owner_id);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}

// isUniqueConstraint reports whether the driver error is a unique or
// primary key violation.
func isUniqueConstraint(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
