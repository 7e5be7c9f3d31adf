package rosterservice

import (
	"errors"

	rosterdb "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/infrastructure/repositories"
)

var (
	// ErrTeamNotFound is returned when a team does not exist.
	ErrTeamNotFound = errors.New("team not found")

	// ErrPlayerNotFound is returned when removing a player that is not on the roster.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrTeamExists aliases the repository error so callers need not import it.
	ErrTeamExists = rosterdb.ErrTeamExists
)
