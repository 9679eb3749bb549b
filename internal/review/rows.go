package review

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
)

// DateInfo describes one date directory under the data root.
type DateInfo struct {
	// Date is the eight-digit directory name.
	Date string

	// HasData reports whether the date's source table exists.
	HasData bool
}

// Dates lists all date directories under the data root, newest first.
func (s *Store) Dates(ctx context.Context) ([]DateInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists, err := s.fsys.Exists(s.cfg.DataRoot)
	if err != nil {
		return nil, fmt.Errorf("stat data root: %w", err)
	}

	if !exists {
		return nil, nil
	}

	entries, err := s.fsys.ReadDir(s.cfg.DataRoot)
	if err != nil {
		return nil, fmt.Errorf("read data root: %w", err)
	}

	var dates []DateInfo

	for _, entry := range entries {
		if !entry.IsDir() || !datePattern.MatchString(entry.Name()) {
			continue
		}

		hasData, err := s.fsys.Exists(s.sourcePath(entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("stat source table: %w", err)
		}

		dates = append(dates, DateInfo{Date: entry.Name(), HasData: hasData})
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Date > dates[j].Date
	})

	return dates, nil
}

// Row is one snapshot data row with its stable 1-based index.
type Row struct {
	Index int
	Data  []string
}

// RowSet is the full contents of a date's working snapshot.
type RowSet struct {
	// SnapshotName is the working-copy filename, for display.
	SnapshotName string

	Headers []string
	Rows    []Row
}

// Rows returns every row of the date's working snapshot, resolving or
// creating the snapshot first. Lock-free read.
func (s *Store) Rows(ctx context.Context, date string) (*RowSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, dateErr(date, err)
	}

	if err := validateDate(date); err != nil {
		return nil, dateErr(date, err)
	}

	path, tbl, err := s.loadSnapshotShared(ctx, date)
	if err != nil {
		return nil, dateErr(date, err)
	}

	set := &RowSet{
		SnapshotName: filepath.Base(path),
		Headers:      tbl.Headers(),
		Rows:         make([]Row, 0, tbl.RowCount()),
	}

	for i := 0; i < tbl.RowCount(); i++ {
		set.Rows = append(set.Rows, Row{Index: i + 1, Data: tbl.Row(i)})
	}

	return set, nil
}
