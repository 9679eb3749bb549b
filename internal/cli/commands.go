package cli

import (
	"errors"
	"fmt"
)

var errFlagNeedsArg = errors.New("flag requires an argument")

func errFlagRequiresArg(name string) error {
	return fmt.Errorf("%w: %s", errFlagNeedsArg, name)
}

var (
	errDateRequired    = errors.New("date argument is required (YYYYMMDD)")
	errRowRequired     = errors.New("row argument is required (1-based index)")
	errVerdictRequired = errors.New("verdict argument is required (exclude, suspect, cancel)")
	errRemarkRequired  = errors.New("remark text is required")
	errUserRequired    = errors.New("reviewer identity is unknown (set --user or $CANDREVIEW_USER)")
)

// commands returns the command registry in help order.
func commands() []*Command {
	return []*Command{
		cmdDates(),
		cmdRows(),
		cmdFiles(),
		cmdJudge(),
		cmdRemark(),
		cmdJudgments(),
		cmdSync(),
		cmdSnapshot(),
		cmdReset(),
		cmdConsole(),
	}
}
