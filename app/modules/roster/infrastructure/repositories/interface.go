package rosterdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for team and roster persistence.
type Repository interface {
	// ListTeams returns every team ordered by name.
	ListTeams(ctx context.Context, db bun.IDB) ([]Team, error)

	// GetTeam returns the team with name.
	GetTeam(ctx context.Context, db bun.IDB, name string) (*Team, error)

	// CreateTeam inserts a team. A taken name yields ErrTeamExists.
	CreateTeam(ctx context.Context, db bun.IDB, team *Team) error

	// ListPlayers returns a team's players in storage order.
	ListPlayers(ctx context.Context, db bun.IDB, teamName string) ([]TeamPlayer, error)

	// UpsertPlayer adds a player or replaces the position of an existing key.
	UpsertPlayer(ctx context.Context, db bun.IDB, player *TeamPlayer) error

	// DeletePlayer removes a player. A missing player yields ErrNotFound.
	DeletePlayer(ctx context.Context, db bun.IDB, teamName, playerKey string) error
}
