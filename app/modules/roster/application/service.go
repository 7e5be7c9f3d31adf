package rosterservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	rosterdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/domain"
	rosterdb "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/infrastructure/repositories"
	"github.com/Black-And-White-Club/volley-analyst/app/observability"
	"github.com/Black-And-White-Club/volley-analyst/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RosterService implements the Service interface.
type RosterService struct {
	repo    rosterdb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewRosterService creates a new RosterService. db may be nil when repo does
// not need transactions.
func NewRosterService(
	repo rosterdb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopOperationMetrics{}
	}
	return &RosterService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

var _ Service = (*RosterService)(nil)

// ListTeams returns all team names in order.
func (s *RosterService) ListTeams(ctx context.Context) ([]string, error) {
	result, err := withTelemetry(s, ctx, "ListTeams", "", func(ctx context.Context) (results.OperationResult[[]string, error], error) {
		teams, err := s.repo.ListTeams(ctx, s.idb())
		if err != nil {
			return results.OperationResult[[]string, error]{}, err
		}
		names := make([]string, 0, len(teams))
		for _, t := range teams {
			names = append(names, t.Name)
		}
		return results.SuccessResult[[]string, error](names), nil
	})
	return unwrap(result, err)
}

// GetRoster returns the team with its players ordered by jersey number.
func (s *RosterService) GetRoster(ctx context.Context, team string) (*rosterdomain.Team, error) {
	result, err := withTelemetry(s, ctx, "GetRoster", team, func(ctx context.Context) (results.OperationResult[*rosterdomain.Team, error], error) {
		return s.getRosterLogic(ctx, s.idb(), team)
	})
	return unwrap(result, err)
}

func (s *RosterService) getRosterLogic(ctx context.Context, db bun.IDB, team string) (results.OperationResult[*rosterdomain.Team, error], error) {
	if _, err := s.repo.GetTeam(ctx, db, team); err != nil {
		if errors.Is(err, rosterdb.ErrNotFound) {
			return results.FailureResult[*rosterdomain.Team, error](fmt.Errorf("%w: %q", ErrTeamNotFound, team)), nil
		}
		return results.OperationResult[*rosterdomain.Team, error]{}, err
	}
	rows, err := s.repo.ListPlayers(ctx, db, team)
	if err != nil {
		return results.OperationResult[*rosterdomain.Team, error]{}, err
	}

	out := &rosterdomain.Team{Name: team, Players: make([]rosterdomain.Player, 0, len(rows))}
	for _, r := range rows {
		out.Players = append(out.Players, rosterdomain.ParsePlayerKey(r.PlayerKey, rosterdomain.Position(r.Position)))
	}
	rosterdomain.SortPlayers(out.Players)
	return results.SuccessResult[*rosterdomain.Team, error](out), nil
}

// AddTeam creates an empty team.
func (s *RosterService) AddTeam(ctx context.Context, name string) (*rosterdomain.Team, error) {
	result, err := withTelemetry(s, ctx, "AddTeam", name, func(ctx context.Context) (results.OperationResult[*rosterdomain.Team, error], error) {
		clean, err := rosterdomain.ValidateTeamName(name)
		if err != nil {
			return results.FailureResult[*rosterdomain.Team, error](err), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdomain.Team, error], error) {
			if err := s.repo.CreateTeam(ctx, db, &rosterdb.Team{Name: clean}); err != nil {
				if errors.Is(err, rosterdb.ErrTeamExists) {
					return results.FailureResult[*rosterdomain.Team, error](fmt.Errorf("%w: %q", ErrTeamExists, clean)), nil
				}
				return results.OperationResult[*rosterdomain.Team, error]{}, err
			}
			return results.SuccessResult[*rosterdomain.Team, error](&rosterdomain.Team{Name: clean, Players: []rosterdomain.Player{}}), nil
		})
	})
	return unwrap(result, err)
}

// AddPlayer adds a player to team, replacing the position when the key exists.
func (s *RosterService) AddPlayer(ctx context.Context, team string, req AddPlayerRequest) (*rosterdomain.Player, error) {
	result, err := withTelemetry(s, ctx, "AddPlayer", team, func(ctx context.Context) (results.OperationResult[*rosterdomain.Player, error], error) {
		player, err := rosterdomain.NewPlayer(req.Name, req.Number, req.Position)
		if err != nil {
			return results.FailureResult[*rosterdomain.Player, error](err), nil
		}
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*rosterdomain.Player, error], error) {
			if _, err := s.repo.GetTeam(ctx, db, team); err != nil {
				if errors.Is(err, rosterdb.ErrNotFound) {
					return results.FailureResult[*rosterdomain.Player, error](fmt.Errorf("%w: %q", ErrTeamNotFound, team)), nil
				}
				return results.OperationResult[*rosterdomain.Player, error]{}, err
			}
			row := &rosterdb.TeamPlayer{TeamName: team, PlayerKey: player.Key, Position: string(player.Position)}
			if err := s.repo.UpsertPlayer(ctx, db, row); err != nil {
				return results.OperationResult[*rosterdomain.Player, error]{}, err
			}
			return results.SuccessResult[*rosterdomain.Player, error](&player), nil
		})
	})
	return unwrap(result, err)
}

// RemovePlayer deletes a player from team.
func (s *RosterService) RemovePlayer(ctx context.Context, team, playerKey string) error {
	result, err := withTelemetry(s, ctx, "RemovePlayer", team, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
			if err := s.repo.DeletePlayer(ctx, db, team, playerKey); err != nil {
				if errors.Is(err, rosterdb.ErrNotFound) {
					return results.FailureResult[bool, error](fmt.Errorf("%w: %q on %q", ErrPlayerNotFound, playerKey, team)), nil
				}
				return results.OperationResult[bool, error]{}, err
			}
			return results.SuccessResult[bool, error](true), nil
		})
	})
	_, err = unwrap(result, err)
	return err
}

// ImportPlayers loads a players sheet, creating missing teams. Rows with an
// unknown position or an empty key are skipped.
func (s *RosterService) ImportPlayers(ctx context.Context, rows []ImportRow) (*ImportResult, error) {
	result, err := withTelemetry(s, ctx, "ImportPlayers", "", func(ctx context.Context) (results.OperationResult[*ImportResult, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*ImportResult, error], error) {
			out := &ImportResult{}
			known := map[string]bool{}
			for _, r := range rows {
				team, err := rosterdomain.ValidateTeamName(r.Team)
				pos := rosterdomain.Position(r.Position)
				if err != nil || r.PlayerKey == "" || !pos.Valid() {
					out.Skipped++
					continue
				}
				if !known[team] {
					err := s.repo.CreateTeam(ctx, db, &rosterdb.Team{Name: team})
					switch {
					case err == nil:
						out.TeamsCreated++
					case errors.Is(err, rosterdb.ErrTeamExists):
					default:
						return results.OperationResult[*ImportResult, error]{}, err
					}
					known[team] = true
				}
				if err := s.repo.UpsertPlayer(ctx, db, &rosterdb.TeamPlayer{TeamName: team, PlayerKey: r.PlayerKey, Position: string(pos)}); err != nil {
					return results.OperationResult[*ImportResult, error]{}, err
				}
				out.Players++
			}
			return results.SuccessResult[*ImportResult, error](out), nil
		})
	})
	return unwrap(result, err)
}

func (s *RosterService) idb() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}
