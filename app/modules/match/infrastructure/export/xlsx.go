// Package matchexport writes flushed rally batches to a spreadsheet.
package matchexport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"

	matchdomain "github.com/Black-And-White-Club/volley-analyst/app/modules/match/domain"
	"github.com/Black-And-White-Club/volley-analyst/pkg/xlsxfile"
)

// SheetName is the worksheet rallies are appended to.
const SheetName = "history"

// Header is the column layout of SheetName.
var Header = []string{
	"Match", "Set", "Team", "Rotation", "Reception", "Setter", "Zone",
	"Hitter", "Position", "Result", "X", "Y", "Home", "Away", "Serve",
	"Recorded At", "Rally ID", "Event ID",
}

// XLSXSink appends rally batches to a workbook on disk.
type XLSXSink struct {
	mu   sync.Mutex
	path string
}

// NewXLSXSink creates a sink writing to path.
func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{path: path}
}

// PersistRallyBatch appends the batch and saves the workbook. The file on disk
// is left untouched when any step fails.
func (s *XLSXSink) PersistRallyBatch(ctx context.Context, records []matchdomain.RallyRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", SheetName, err)
	}
	next := len(rows) + 1
	if len(rows) == 0 {
		if err := setRow(f, 1, toCells(Header)); err != nil {
			return err
		}
		next = 2
	}
	for i, r := range records {
		if err := setRow(f, next+i, recordCells(r)); err != nil {
			return err
		}
	}

	if err := xlsxfile.SaveAtomic(f, s.path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// ReadHistory returns the data rows of the workbook, header excluded.
func (s *XLSXSink) ReadHistory() ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", SheetName, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (s *XLSXSink) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if err == nil {
		if idx, _ := f.GetSheetIndex(SheetName); idx < 0 {
			if _, err := f.NewSheet(SheetName); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to add sheet %q: %w", SheetName, err)
			}
		}
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	f = excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	return f, nil
}

func setRow(f *excelize.File, row int, cells []interface{}) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, axis, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func toCells(vals []string) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func recordCells(r matchdomain.RallyRecord) []interface{} {
	return []interface{}{
		r.MatchLabel,
		r.Set,
		r.Team,
		r.Rotation(),
		string(r.Reception),
		string(r.Setter),
		string(r.Zone),
		string(r.Hitter),
		r.HitterPosition,
		string(r.Result),
		strconv.FormatFloat(r.X, 'f', -1, 64),
		strconv.FormatFloat(r.Y, 'f', -1, 64),
		r.Snapshot.HomeScore,
		r.Snapshot.AwayScore,
		string(r.Snapshot.Serve),
		r.RecordedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		r.ID,
		r.EventID,
	}
}
