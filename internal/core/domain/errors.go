package domain

import "errors"

var (
	// ErrNotFound signals that a referenced row does not exist.
	ErrNotFound = errors.New("domain: not found")

	// ErrNotAuthorized signals that the caller does not own the profile.
	ErrNotAuthorized = errors.New("domain: not authorized")

	// ErrDuplicateSong signals that the song is already in the profile.
	ErrDuplicateSong = errors.New("domain: song already exists in this profile")

	// ErrProfileFull signals that the profile is at its song capacity.
	ErrProfileFull = errors.New("domain: profile is at capacity")
)
