package review

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/surveyops/candreview/internal/fs"
)

func TestSubmitJudgmentAndAggregate(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, threeRowCSV)
	ctx := context.Background()

	// Two users judge the same row; the aggregate tracks the last writer.
	require.NoError(t, store.SubmitJudgment(ctx, testDate, 2, "alice", VerdictExclude))
	require.NoError(t, store.SubmitJudgment(ctx, testDate, 2, "bob", VerdictSuspect))

	judgments, err := store.Judgments(ctx, testDate)
	require.NoError(t, err)
	require.Contains(t, judgments, 2)

	got := judgments[2]
	want := RowJudgment{
		Users:   map[string]string{"alice": "exclude", "bob": "suspect"},
		Final:   "suspect",
		FinalBy: "bob",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row 2 judgment mismatch (-want +got):\n%s", diff)
	}

	// Unjudged rows are omitted.
	require.NotContains(t, judgments, 1)
	require.NotContains(t, judgments, 3)
}

func TestCancelClearsAllThreeCells(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, threeRowCSV)
	ctx := context.Background()

	for _, verdict := range []Verdict{VerdictExclude, VerdictSuspect} {
		require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", verdict))
		require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", VerdictCancel))

		judgments, err := store.Judgments(ctx, testDate)
		require.NoError(t, err)
		require.NotContains(t, judgments, 1,
			"row 1 should have no visible state after cancel of %s", verdict)
	}
}

func TestCancelOnlyClearsOwnRow(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, threeRowCSV)
	ctx := context.Background()

	require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", VerdictExclude))
	require.NoError(t, store.SubmitJudgment(ctx, testDate, 2, "alice", VerdictSuspect))
	require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", VerdictCancel))

	judgments, err := store.Judgments(ctx, testDate)
	require.NoError(t, err)
	require.NotContains(t, judgments, 1)
	require.Contains(t, judgments, 2)
	require.Equal(t, "suspect", judgments[2].Final)
}

func TestSubmitJudgmentInvalidVerdict(t *testing.T) {
	t.Parallel()

	store, root := newTestStore(t, threeRowCSV)
	ctx := context.Background()

	err := store.SubmitJudgment(ctx, testDate, 1, "alice", Verdict("keep"))
	require.ErrorIs(t, err, ErrInvalidVerdict)

	// Rejected before any mutation: no snapshot was created.
	require.Empty(t, snapshotFiles(t, root, testDate))
}

func TestSubmitJudgmentRowNotFound(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, threeRowCSV)
	ctx := context.Background()

	for _, row := range []int{0, -1, 4, 100} {
		err := store.SubmitJudgment(ctx, testDate, row, "alice", VerdictExclude)
		require.ErrorIs(t, err, ErrRowNotFound, "row %d", row)
	}
}

func TestSubmitRemarkOverwrites(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, threeRowCSV)
	ctx := context.Background()

	require.NoError(t, store.SubmitRemark(ctx, testDate, 3, "likely hot pixel"))
	require.NoError(t, store.SubmitRemark(ctx, testDate, 3, "confirmed artifact"))

	judgments, err := store.Judgments(ctx, testDate)
	require.NoError(t, err)
	require.Contains(t, judgments, 3)
	require.Equal(t, "confirmed artifact", judgments[3].Remark)

	// A remark alone never fabricates judgment state.
	require.Empty(t, judgments[3].Users)
	require.Empty(t, judgments[3].Final)
}

func TestRemarkIndependentOfJudgments(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, threeRowCSV)
	ctx := context.Background()

	require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", VerdictExclude))
	require.NoError(t, store.SubmitRemark(ctx, testDate, 1, "moving object"))
	require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", VerdictCancel))

	judgments, err := store.Judgments(ctx, testDate)
	require.NoError(t, err)

	// Cancel clears judgment cells only; the remark survives.
	require.Contains(t, judgments, 1)
	require.Equal(t, "moving object", judgments[1].Remark)
	require.Empty(t, judgments[1].Users)
}

func TestJudgmentRepeatable(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, threeRowCSV)
	ctx := context.Background()

	require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", VerdictExclude))
	require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", VerdictExclude))

	judgments, err := store.Judgments(ctx, testDate)
	require.NoError(t, err)
	require.Equal(t, "exclude", judgments[1].Users["alice"])
}

func TestFailedSavePreservesPreviousSnapshot(t *testing.T) {
	t.Parallel()

	faulty := fs.NewFaulty(fs.NewReal())
	store, _ := newTestStoreFS(t, faulty, threeRowCSV)
	ctx := context.Background()

	require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", VerdictExclude))

	boom := errors.New("no space left on device")
	faulty.FailWith(fs.OpWriteFile, boom)

	err := store.SubmitJudgment(ctx, testDate, 2, "alice", VerdictSuspect)
	require.ErrorIs(t, err, boom)

	// The previous snapshot version is intact: row 1 judged, row 2 not.
	faulty.FailWith(fs.OpWriteFile, nil)

	judgments, err := store.Judgments(ctx, testDate)
	require.NoError(t, err)
	require.Contains(t, judgments, 1)
	require.NotContains(t, judgments, 2)
}

func TestJudgmentColumnsAppendAfterDataColumns(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, threeRowCSV)
	ctx := context.Background()

	require.NoError(t, store.SubmitJudgment(ctx, testDate, 1, "alice", VerdictExclude))

	path, err := store.Snapshot(ctx, testDate)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	wantHeader := "attribute,sequence_number,score,judge_alice,final_judge,final_judge_by"
	require.Equal(t, wantHeader, firstLine(string(data)))
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}

	return s
}
