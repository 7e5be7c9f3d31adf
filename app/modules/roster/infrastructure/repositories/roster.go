package rosterdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new roster repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListTeams returns every team ordered by name.
func (r *Impl) ListTeams(ctx context.Context, db bun.IDB) ([]Team, error) {
	db = r.resolveDB(db)
	var teams []Team
	if err := db.NewSelect().Model(&teams).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns the team with name.
func (r *Impl) GetTeam(ctx context.Context, db bun.IDB, name string) (*Team, error) {
	db = r.resolveDB(db)
	team := new(Team)
	err := db.NewSelect().
		Model(team).
		Where("name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// CreateTeam inserts a team. A taken name yields ErrTeamExists.
func (r *Impl) CreateTeam(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(team).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrTeamExists
	}
	return nil
}

// ListPlayers returns a team's players ordered by key.
func (r *Impl) ListPlayers(ctx context.Context, db bun.IDB, teamName string) ([]TeamPlayer, error) {
	db = r.resolveDB(db)
	var players []TeamPlayer
	err := db.NewSelect().
		Model(&players).
		Where("team_name = ?", teamName).
		Order("player_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// UpsertPlayer adds a player or replaces the position of an existing key.
func (r *Impl) UpsertPlayer(ctx context.Context, db bun.IDB, player *TeamPlayer) error {
	db = r.resolveDB(db)
	player.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(player).
		On("CONFLICT (team_name, player_key) DO UPDATE").
		Set("position = EXCLUDED.position").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

// DeletePlayer removes a player. A missing player yields ErrNotFound.
func (r *Impl) DeletePlayer(ctx context.Context, db bun.IDB, teamName, playerKey string) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*TeamPlayer)(nil)).
		Where("team_name = ?", teamName).
		Where("player_key = ?", playerKey).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
