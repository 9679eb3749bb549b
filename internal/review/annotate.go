package review

import (
	"context"
	"fmt"
	"strings"
)

// Verdict is a reviewer's call on a candidate row.
type Verdict string

// Allowed verdicts. Cancel is a clearing instruction, not a stored value:
// submitting it blanks the user's cell and the aggregate cells for the row.
const (
	VerdictExclude Verdict = "exclude"
	VerdictSuspect Verdict = "suspect"
	VerdictCancel  Verdict = "cancel"
)

// Annotation column names. judgeColumnPrefix is followed by the username;
// the others are row aggregates shared by all reviewers.
const (
	judgeColumnPrefix  = "judge_"
	finalJudgeColumn   = "final_judge"
	finalJudgeByColumn = "final_judge_by"
	finalRemarkColumn  = "final_remark"
)

func validVerdict(v Verdict) bool {
	switch v {
	case VerdictExclude, VerdictSuspect, VerdictCancel:
		return true
	default:
		return false
	}
}

// JudgeColumn returns the per-user judgment column name.
func JudgeColumn(user string) string {
	return judgeColumnPrefix + user
}

// SubmitJudgment records user's verdict on a row (1-based index).
//
// A non-cancel verdict is written to the user's own column and, last writer
// wins, to the row's final_judge/final_judge_by aggregates. Cancel blanks
// all three cells. The needed columns are provisioned on first use; the
// whole load-mutate-save runs under the date's write lock.
//
// Safe to re-issue: a repeated submission writes the same cells again.
func (s *Store) SubmitJudgment(ctx context.Context, date string, row int, user string, verdict Verdict) error {
	if err := ctx.Err(); err != nil {
		return rowErr(date, row, err)
	}

	if err := validateDate(date); err != nil {
		return rowErr(date, row, err)
	}

	if !validVerdict(verdict) {
		return rowErr(date, row, fmt.Errorf("%w: %q", ErrInvalidVerdict, verdict))
	}

	if strings.TrimSpace(user) == "" {
		return rowErr(date, row, fmt.Errorf("%w: empty user", ErrInvalidVerdict))
	}

	err := s.withDateLock(date, func() error {
		path, tbl, err := s.loadSnapshotLocked(date)
		if err != nil {
			return err
		}

		if row < 1 || row > tbl.RowCount() {
			return fmt.Errorf("%w: row %d of %d", ErrRowNotFound, row, tbl.RowCount())
		}

		userCol := tbl.EnsureColumn(JudgeColumn(user))
		finalCol := tbl.EnsureColumn(finalJudgeColumn)
		finalByCol := tbl.EnsureColumn(finalJudgeByColumn)

		idx := row - 1

		if verdict == VerdictCancel {
			for _, col := range []int{userCol, finalCol, finalByCol} {
				if err := tbl.SetCell(idx, col, ""); err != nil {
					return err
				}
			}
		} else {
			if err := tbl.SetCell(idx, userCol, string(verdict)); err != nil {
				return err
			}

			if err := tbl.SetCell(idx, finalCol, string(verdict)); err != nil {
				return err
			}

			if err := tbl.SetCell(idx, finalByCol, user); err != nil {
				return err
			}
		}

		return s.saveSnapshot(path, tbl)
	})

	return rowErr(date, row, err)
}

// SubmitRemark overwrites a row's free-text remark. Remarks are independent
// of judgments and carry no versioning; the latest submission wins.
func (s *Store) SubmitRemark(ctx context.Context, date string, row int, text string) error {
	if err := ctx.Err(); err != nil {
		return rowErr(date, row, err)
	}

	if err := validateDate(date); err != nil {
		return rowErr(date, row, err)
	}

	err := s.withDateLock(date, func() error {
		path, tbl, err := s.loadSnapshotLocked(date)
		if err != nil {
			return err
		}

		if row < 1 || row > tbl.RowCount() {
			return fmt.Errorf("%w: row %d of %d", ErrRowNotFound, row, tbl.RowCount())
		}

		col := tbl.EnsureColumn(finalRemarkColumn)

		if err := tbl.SetCell(row-1, col, text); err != nil {
			return err
		}

		return s.saveSnapshot(path, tbl)
	})

	return rowErr(date, row, err)
}

// RowJudgment aggregates all annotation state for one row.
type RowJudgment struct {
	// Users maps username to that user's stored verdict.
	Users map[string]string

	// Final is the most recent non-cancel verdict by any user.
	Final string

	// FinalBy is the user who wrote Final.
	FinalBy string

	// Remark is the row's free-text remark.
	Remark string
}

// Judgments collects annotation state for every row of a date, keyed by
// 1-based row index. Rows with no judgment, final value, or remark are
// omitted.
//
// This is a lock-free read: it may run beside a writer, in which case it
// observes the previous complete snapshot version (saves are atomic
// renames), never a torn file.
func (s *Store) Judgments(ctx context.Context, date string) (map[int]RowJudgment, error) {
	if err := ctx.Err(); err != nil {
		return nil, dateErr(date, err)
	}

	if err := validateDate(date); err != nil {
		return nil, dateErr(date, err)
	}

	_, tbl, err := s.loadSnapshotShared(ctx, date)
	if err != nil {
		return nil, dateErr(date, err)
	}

	judgeCols := make(map[string]int) // username -> column index
	finalCol, finalByCol, remarkCol := -1, -1, -1

	for i, h := range tbl.Headers() {
		switch {
		case strings.HasPrefix(h, judgeColumnPrefix):
			judgeCols[strings.TrimPrefix(h, judgeColumnPrefix)] = i
		case h == finalJudgeColumn:
			finalCol = i
		case h == finalJudgeByColumn:
			finalByCol = i
		case h == finalRemarkColumn:
			remarkCol = i
		}
	}

	result := make(map[int]RowJudgment)

	for i := 0; i < tbl.RowCount(); i++ {
		users := make(map[string]string)

		for user, col := range judgeCols {
			if v := tbl.Cell(i, col); v != "" {
				users[user] = v
			}
		}

		var final, finalBy, remark string

		if finalCol >= 0 {
			final = tbl.Cell(i, finalCol)
		}

		if finalByCol >= 0 {
			finalBy = tbl.Cell(i, finalByCol)
		}

		if remarkCol >= 0 {
			remark = tbl.Cell(i, remarkCol)
		}

		if len(users) == 0 && final == "" && remark == "" {
			continue
		}

		result[i+1] = RowJudgment{
			Users:   users,
			Final:   final,
			FinalBy: finalBy,
			Remark:  remark,
		}
	}

	return result, nil
}
