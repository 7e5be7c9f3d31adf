package matchservice

import "errors"

var (
	// ErrMatchNotFound is returned when no session exists for the match id.
	ErrMatchNotFound = errors.New("match not found")
	// ErrUnknownTeam is returned when the home team has no roster.
	ErrUnknownTeam = errors.New("team has no roster")
)
