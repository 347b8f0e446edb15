package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ewilliams-labs/woodshed/internal/core/domain"
)

// GetProfile loads one profile row.
func (a *Adapter) GetProfile(ctx context.Context, id int64) (domain.Profile, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, created_at FROM profiles WHERE id = ?
	`, id)
	return scanProfile(row)
}

// ListProfiles returns the owner's profiles, oldest first.
func (a *Adapter) ListProfiles(ctx context.Context, ownerID string) ([]domain.Profile, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, owner_id, name, created_at FROM profiles
		WHERE owner_id = ?
		ORDER BY id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}
	return profiles, nil
}

// CreateProfile inserts a profile container for the given owner.
func (a *Adapter) CreateProfile(ctx context.Context, ownerID string, name *string) (domain.Profile, error) {
	var nameVal sql.NullString
	if name != nil {
		nameVal = sql.NullString{String: *name, Valid: true}
	}

	res, err := a.db.ExecContext(ctx, `
		INSERT INTO profiles (owner_id, name) VALUES (?, ?)
	`, ownerID, nameVal)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to insert profile: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to read inserted profile id: %w", err)
	}
	return a.GetProfile(ctx, id)
}

// RenameProfile updates the profile's display name and returns the fresh row.
func (a *Adapter) RenameProfile(ctx context.Context, id int64, name string) (domain.Profile, error) {
	res, err := a.db.ExecContext(ctx, "UPDATE profiles SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to rename profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("failed to rename profile: %w", err)
	}
	if affected == 0 {
		return domain.Profile{}, domain.ErrNotFound
	}
	return a.GetProfile(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (domain.Profile, error) {
	var profile domain.Profile
	var name sql.NullString
	if err := row.Scan(&profile.ID, &profile.OwnerID, &name, &profile.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("failed to scan profile: %w", err)
	}
	if name.Valid {
		profile.Name = &name.String
	}
	return profile, nil
}
