package rosterservice

import (
	"context"

	rosterdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/domain"
)

// Service manages teams and their rosters.
type Service interface {
	ListTeams(ctx context.Context) ([]string, error)
	GetRoster(ctx context.Context, team string) (*rosterdomain.Team, error)
	AddTeam(ctx context.Context, name string) (*rosterdomain.Team, error)
	AddPlayer(ctx context.Context, team string, req AddPlayerRequest) (*rosterdomain.Player, error)
	RemovePlayer(ctx context.Context, team, playerKey string) error
	ImportPlayers(ctx context.Context, rows []ImportRow) (*ImportResult, error)
}

// AddPlayerRequest describes a player to add. Re-adding an existing key
// replaces its position.
type AddPlayerRequest struct {
	Name     string
	Number   *int
	Position rosterdomain.Position
}

// ImportRow is one line of a players sheet.
type ImportRow struct {
	Team      string
	PlayerKey string
	Position  string
}

// ImportResult counts what an import changed.
type ImportResult struct {
	TeamsCreated int `json:"teams_created"`
	Players      int `json:"players"`
	Skipped      int `json:"skipped"`
}
