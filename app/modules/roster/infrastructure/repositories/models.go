package rosterdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Team is a row of the teams table.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	Name      string    `bun:"name,pk"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// TeamPlayer is a row of the team_players table.
type TeamPlayer struct {
	bun.BaseModel `bun:"table:team_players,alias:tp"`

	TeamName  string    `bun:"team_name,pk"`
	PlayerKey string    `bun:"player_key,pk"`
	Position  string    `bun:"position,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
