package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/surveyops/candreview/internal/table"
)

// SyncResult reports what a sync pass did.
type SyncResult struct {
	// Added is the number of rows appended to the snapshot.
	Added int

	// Total is the snapshot's row count after the pass.
	Total int
}

// SyncNewRows appends source table rows that the snapshot does not hold yet.
//
// Only the source's original data columns are carried over; annotation cells
// for new rows start empty. Existing snapshot rows are never touched, so row
// k of the snapshot always corresponds to row k of the source. When the
// source has no rows beyond the snapshot's count the call is a no-op with
// Added == 0, which makes repeated syncs safe.
//
// Runs under the date's write lock, like all snapshot mutation.
func (s *Store) SyncNewRows(ctx context.Context, date string) (SyncResult, error) {
	if err := ctx.Err(); err != nil {
		return SyncResult{}, dateErr(date, err)
	}

	if err := validateDate(date); err != nil {
		return SyncResult{}, dateErr(date, err)
	}

	var result SyncResult

	err := s.withDateLock(date, func() error {
		src := s.sourcePath(date)

		exists, err := s.fsys.Exists(src)
		if err != nil {
			return fmt.Errorf("stat source table: %w", err)
		}

		if !exists {
			return ErrSourceNotFound
		}

		srcData, err := s.fsys.ReadFile(src)
		if err != nil {
			return fmt.Errorf("read source table: %w", err)
		}

		srcTbl, err := table.ReadCSVBytes(srcData)
		if err != nil {
			if errors.Is(err, table.ErrEmptyHeader) {
				return fmt.Errorf("%w: source table has no header", ErrSnapshotCorrupt)
			}

			return fmt.Errorf("%w: source table: %v", ErrSnapshotCorrupt, err)
		}

		path, snapTbl, err := s.loadSnapshotLocked(date)
		if err != nil {
			return err
		}

		have := snapTbl.RowCount()
		want := srcTbl.RowCount()

		if want <= have {
			result = SyncResult{Added: 0, Total: have}

			return nil
		}

		// Row() pads to the source header width, so appended rows carry
		// exactly the source data columns; annotation cells start empty.
		for i := have; i < want; i++ {
			snapTbl.AppendRow(srcTbl.Row(i))
		}

		err = s.saveSnapshot(path, snapTbl)
		if err != nil {
			return err
		}

		result = SyncResult{Added: want - have, Total: want}

		return nil
	})
	if err != nil {
		return SyncResult{}, dateErr(date, err)
	}

	return result, nil
}
