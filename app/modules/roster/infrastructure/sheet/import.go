package rostersheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data line of a players sheet.
type Row struct {
	Team      string
	PlayerKey string
	Position  string
}

// ParsePlayers reads the players sheet of an uploaded workbook. Columns are
// located by header name so extra columns are tolerated.
func ParsePlayers(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := PlayersSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	team, okTeam := cols["team"]
	key, okKey := cols["playerkey"]
	pos, okPos := cols["position"]
	if !okTeam || !okKey || !okPos {
		return nil, fmt.Errorf("sheet %q needs Team, PlayerKey and Position columns", sheet)
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	out := make([]Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		r := Row{Team: cell(row, team), PlayerKey: cell(row, key), Position: cell(row, pos)}
		if r.Team == "" && r.PlayerKey == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
