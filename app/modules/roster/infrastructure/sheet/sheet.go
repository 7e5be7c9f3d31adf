// Package rostersheet keeps teams and rosters in a spreadsheet when no
// database is configured.
package rostersheet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"

	rosterdb "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/infrastructure/repositories"
	"github.com/Black-And-White-Club/volley-analyst/pkg/xlsxfile"
)

const (
	TeamsSheet   = "teams"
	PlayersSheet = "players"
)

var playersHeader = []interface{}{"Team", "PlayerKey", "Position"}

// Store implements rosterdb.Repository on top of an XLSX workbook. The bun
// handle passed to each method is ignored.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore creates a store backed by the workbook at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

var _ rosterdb.Repository = (*Store)(nil)

type book struct {
	teams   []string
	players []rosterdb.TeamPlayer
}

// ListTeams returns every team ordered by name.
func (s *Store) ListTeams(ctx context.Context, _ bun.IDB) ([]rosterdb.Team, error) {
	b, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]rosterdb.Team, 0, len(b.teams))
	for _, name := range b.teams {
		out = append(out, rosterdb.Team{Name: name})
	}
	return out, nil
}

// GetTeam returns the team with name.
func (s *Store) GetTeam(ctx context.Context, _ bun.IDB, name string) (*rosterdb.Team, error) {
	b, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if !b.hasTeam(name) {
		return nil, rosterdb.ErrNotFound
	}
	return &rosterdb.Team{Name: name}, nil
}

// CreateTeam inserts a team. A taken name yields rosterdb.ErrTeamExists.
func (s *Store) CreateTeam(ctx context.Context, _ bun.IDB, team *rosterdb.Team) error {
	return s.update(ctx, func(b *book) error {
		if b.hasTeam(team.Name) {
			return rosterdb.ErrTeamExists
		}
		b.teams = append(b.teams, team.Name)
		team.CreatedAt = s.now()
		return nil
	})
}

// ListPlayers returns a team's players ordered by key.
func (s *Store) ListPlayers(ctx context.Context, _ bun.IDB, teamName string) ([]rosterdb.TeamPlayer, error) {
	b, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	var out []rosterdb.TeamPlayer
	for _, p := range b.players {
		if p.TeamName == teamName {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerKey < out[j].PlayerKey })
	return out, nil
}

// UpsertPlayer adds a player or replaces the position of an existing key.
func (s *Store) UpsertPlayer(ctx context.Context, _ bun.IDB, player *rosterdb.TeamPlayer) error {
	return s.update(ctx, func(b *book) error {
		if !b.hasTeam(player.TeamName) {
			return fmt.Errorf("team %q: %w", player.TeamName, rosterdb.ErrNotFound)
		}
		player.UpdatedAt = s.now()
		for i := range b.players {
			if b.players[i].TeamName == player.TeamName && b.players[i].PlayerKey == player.PlayerKey {
				b.players[i].Position = player.Position
				return nil
			}
		}
		b.players = append(b.players, *player)
		return nil
	})
}

// DeletePlayer removes a player. A missing player yields rosterdb.ErrNotFound.
func (s *Store) DeletePlayer(ctx context.Context, _ bun.IDB, teamName, playerKey string) error {
	return s.update(ctx, func(b *book) error {
		for i := range b.players {
			if b.players[i].TeamName == teamName && b.players[i].PlayerKey == playerKey {
				b.players = append(b.players[:i], b.players[i+1:]...)
				return nil
			}
		}
		return rosterdb.ErrNotFound
	})
}

func (b *book) hasTeam(name string) bool {
	for _, t := range b.teams {
		if t == name {
			return true
		}
	}
	return false
}

func (s *Store) read(ctx context.Context) (*book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) update(ctx context.Context, fn func(b *book) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(b); err != nil {
		return err
	}
	return s.save(b)
}

// load reads the workbook. A missing file is an empty roster. Teams that only
// appear on the players sheet are added to the team list.
func (s *Store) load() (*book, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &book{}, nil
		}
		return nil, fmt.Errorf("failed to open roster workbook: %w", err)
	}
	defer f.Close()

	b := &book{}
	if idx, _ := f.GetSheetIndex(TeamsSheet); idx >= 0 {
		rows, err := f.GetRows(TeamsSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", TeamsSheet, err)
		}
		for i, row := range rows {
			if i == 0 || len(row) == 0 || row[0] == "" {
				continue
			}
			if !b.hasTeam(row[0]) {
				b.teams = append(b.teams, row[0])
			}
		}
	}
	if idx, _ := f.GetSheetIndex(PlayersSheet); idx >= 0 {
		rows, err := f.GetRows(PlayersSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", PlayersSheet, err)
		}
		for i, row := range rows {
			if i == 0 || len(row) < 3 || row[0] == "" || row[1] == "" {
				continue
			}
			if !b.hasTeam(row[0]) {
				b.teams = append(b.teams, row[0])
			}
			b.players = append(b.players, rosterdb.TeamPlayer{TeamName: row[0], PlayerKey: row[1], Position: row[2]})
		}
	}
	sort.Strings(b.teams)
	return b, nil
}

func (s *Store) save(b *book) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), TeamsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(PlayersSheet); err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", PlayersSheet, err)
	}

	teams := [][]interface{}{{"Team"}}
	for _, t := range b.teams {
		teams = append(teams, []interface{}{t})
	}
	if err := writeRows(f, TeamsSheet, teams); err != nil {
		return err
	}

	players := [][]interface{}{playersHeader}
	for _, p := range b.players {
		players = append(players, []interface{}{p.TeamName, p.PlayerKey, p.Position})
	}
	if err := writeRows(f, PlayersSheet, players); err != nil {
		return err
	}

	if err := xlsxfile.SaveAtomic(f, s.path); err != nil {
		return fmt.Errorf("failed to save roster workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
