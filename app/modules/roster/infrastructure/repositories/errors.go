package rosterdb

import "errors"

var (
	// ErrNotFound is returned when a team or player is not found.
	ErrNotFound = errors.New("roster entry not found")

	// ErrTeamExists is returned when creating a team whose name is taken.
	ErrTeamExists = errors.New("team already exists")
)
