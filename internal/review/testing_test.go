package review

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/surveyops/candreview/internal/fs"
)

const testDate = "20260115"

// threeRowCSV is a minimal source table in the upstream pipeline's shape.
const threeRowCSV = "attribute,sequence_number,score\n" +
	"GWAC,1,0.91\n" +
	"GWAC,2,0.42\n" +
	"GWAC,3,0.77\n"

// fiveRowCSV extends threeRowCSV with two appended rows, the way the
// upstream source grows during a night.
const fiveRowCSV = threeRowCSV +
	"GWAC,4,0.13\n" +
	"GWAC,5,0.66\n"

// newTestStore builds a store over a temp data root holding one date with
// the given source content. Returns the store and the data root.
func newTestStore(t *testing.T, sourceCSV string) (*Store, string) {
	t.Helper()

	return newTestStoreFS(t, fs.NewReal(), sourceCSV)
}

// newTestStoreFS is newTestStore with an explicit filesystem, for fault
// injection.
func newTestStoreFS(t *testing.T, fsys fs.FS, sourceCSV string) (*Store, string) {
	t.Helper()

	root := t.TempDir()

	writeSource(t, root, testDate, sourceCSV)

	cfg := DefaultConfig()
	cfg.DataRoot = root

	store := New(fsys, cfg)
	store.now = func() time.Time {
		return time.Date(2026, 1, 15, 21, 30, 45, 0, time.UTC)
	}

	return store, root
}

// writeSource (over)writes a date's source table.
func writeSource(t *testing.T, root, date, content string) {
	t.Helper()

	dir := filepath.Join(root, date)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		t.Fatalf("mkdir date dir: %v", err)
	}

	err = os.WriteFile(filepath.Join(dir, "candidate.csv"), []byte(content), 0o644)
	if err != nil {
		t.Fatalf("write source: %v", err)
	}
}

// snapshotFiles lists the date's snapshot files by name.
func snapshotFiles(t *testing.T, root, date string) []string {
	t.Helper()

	entries, err := os.ReadDir(filepath.Join(root, date))
	if err != nil {
		t.Fatalf("read date dir: %v", err)
	}

	var names []string

	for _, entry := range entries {
		if isSnapshotName(entry.Name(), date) {
			names = append(names, entry.Name())
		}
	}

	return names
}
