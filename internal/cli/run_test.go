package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCSV = "attribute,sequence_number,score\n" +
	"GWAC,1,0.91\n" +
	"GWAC,2,0.42\n" +
	"GWAC,3,0.77\n"

// runCLI invokes Run against a prepared data root and captures output. The
// global config lookup is pointed at an empty directory so a developer's
// real config cannot leak in.
func runCLI(t *testing.T, root string, args ...string) (int, string, string) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer

	full := append([]string{"candreview", "--data-root", root, "--user", "alice"}, args...)
	code := Run(strings.NewReader(""), &out, &errOut, full)

	return code, out.String(), errOut.String()
}

// newDataRoot builds a temp data root with one date's source table.
func newDataRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "20260115")

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err = os.WriteFile(filepath.Join(dir, "candidate.csv"), []byte(testCSV), 0o644)
	if err != nil {
		t.Fatalf("write source: %v", err)
	}

	return root
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var out, errOut bytes.Buffer

	code := Run(strings.NewReader(""), &out, &errOut, []string{"candreview"})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	if !strings.Contains(out.String(), "Usage: candreview") {
		t.Errorf("usage not printed:\n%s", out.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	root := newDataRoot(t)

	code, _, errOut := runCLI(t, root, "frobnicate")
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}

	if !strings.Contains(errOut, "unknown command") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRunDates(t *testing.T) {
	root := newDataRoot(t)

	code, out, errOut := runCLI(t, root, "dates")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}

	if !strings.Contains(out, "20260115") {
		t.Errorf("dates output missing date:\n%s", out)
	}
}

func TestRunJudgeThenJudgments(t *testing.T) {
	root := newDataRoot(t)

	code, _, errOut := runCLI(t, root, "judge", "20260115", "2", "suspect")
	if code != 0 {
		t.Fatalf("judge failed (%d): %s", code, errOut)
	}

	code, out, errOut := runCLI(t, root, "judgments", "20260115")
	if code != 0 {
		t.Fatalf("judgments failed (%d): %s", code, errOut)
	}

	if !strings.Contains(out, "row 2: alice=suspect, final=suspect by alice") {
		t.Errorf("judgments output:\n%s", out)
	}
}

func TestRunJudgeInvalidVerdict(t *testing.T) {
	root := newDataRoot(t)

	code, _, errOut := runCLI(t, root, "judge", "20260115", "2", "keep")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}

	if !strings.Contains(errOut, "invalid verdict") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRunSyncReportsCounts(t *testing.T) {
	root := newDataRoot(t)

	// Materialize the snapshot, then grow the source.
	code, _, errOut := runCLI(t, root, "snapshot", "20260115")
	if code != 0 {
		t.Fatalf("snapshot failed (%d): %s", code, errOut)
	}

	grown := testCSV + "GWAC,4,0.13\n"

	err := os.WriteFile(filepath.Join(root, "20260115", "candidate.csv"), []byte(grown), 0o644)
	if err != nil {
		t.Fatalf("grow source: %v", err)
	}

	code, out, errOut := runCLI(t, root, "sync", "20260115")
	if code != 0 {
		t.Fatalf("sync failed (%d): %s", code, errOut)
	}

	if !strings.Contains(out, "added 1 rows, 4 total") {
		t.Errorf("sync output:\n%s", out)
	}
}

func TestRunGlobalFlagNeedsValue(t *testing.T) {
	var out, errOut bytes.Buffer

	code := Run(strings.NewReader(""), &out, &errOut, []string{"candreview", "--data-root"})
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}

	if !strings.Contains(errOut.String(), "flag requires an argument") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestRunJudgmentsJSON(t *testing.T) {
	root := newDataRoot(t)

	code, _, errOut := runCLI(t, root, "remark", "20260115", "3", "hot", "pixel")
	if code != 0 {
		t.Fatalf("remark failed (%d): %s", code, errOut)
	}

	code, out, errOut := runCLI(t, root, "judgments", "20260115", "--json")
	if code != 0 {
		t.Fatalf("judgments failed (%d): %s", code, errOut)
	}

	if !strings.Contains(out, `"remark": "hot pixel"`) {
		t.Errorf("json output:\n%s", out)
	}
}

func TestRunRowsLimit(t *testing.T) {
	root := newDataRoot(t)

	code, out, errOut := runCLI(t, root, "rows", "20260115", "--limit", "1", "--offset", "1")
	if code != 0 {
		t.Fatalf("rows failed (%d): %s", code, errOut)
	}

	if !strings.Contains(out, "2\tGWAC\t2\t0.42") {
		t.Errorf("rows output:\n%s", out)
	}

	if strings.Contains(out, "3\tGWAC") {
		t.Errorf("limit not applied:\n%s", out)
	}
}

func TestRunCommandHelp(t *testing.T) {
	root := newDataRoot(t)

	code, out, _ := runCLI(t, root, "judge", "--help")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	if !strings.Contains(out, "Usage: candreview judge") {
		t.Errorf("help output:\n%s", out)
	}
}
