// Package cli implements the candreview command line interface.
//
// The CLI is the thin collaborator layer over the review store: it resolves
// configuration, hands each operation a (date, user, row, payload) tuple,
// and renders the result. Everything durable happens in internal/review.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/surveyops/candreview/internal/fs"
	"github.com/surveyops/candreview/internal/presence"
	"github.com/surveyops/candreview/internal/review"
)

// App holds the wired-up services commands operate on.
type App struct {
	Store    *review.Store
	Presence *presence.Tracker
	IO       *IO

	// User is the authenticated reviewer identity. Identity resolution
	// itself is external; the CLI takes it from --user or $CANDREVIEW_USER
	// falling back to $USER.
	User string
}

// globalFlags are parsed before the command name.
type globalFlags struct {
	configPath string
	dataRoot   string
	user       string
	remaining  []string
}

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out, errOut io.Writer, args []string) int {
	o := NewIO(in, out, errOut)

	if len(args) < 2 {
		printUsage(o)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		o.Errorln("error:", err)

		return 2
	}

	if len(flags.remaining) == 0 {
		printUsage(o)

		return 0
	}

	workDir, err := os.Getwd()
	if err != nil {
		o.Errorln("error: cannot get working directory:", err)

		return 1
	}

	overrides := review.Config{DataRoot: flags.dataRoot}

	cfg, _, err := review.LoadConfig(workDir, flags.configPath, overrides)
	if err != nil {
		o.Errorln("error:", err)

		return 1
	}

	app := &App{
		Store:    review.New(fs.NewReal(), cfg),
		Presence: presence.NewTracker(cfg.PresenceTimeout()),
		IO:       o,
		User:     resolveUser(flags.user),
	}

	name := flags.remaining[0]
	cmdArgs := flags.remaining[1:]

	for _, c := range commands() {
		if c.Name() == name {
			return c.Run(context.Background(), app, cmdArgs)
		}
	}

	o.Errorln("error: unknown command:", name)
	printUsage(o)

	return 2
}

// parseGlobalFlags splits global flags from the command and its arguments.
// Parsing stops at the first non-flag token so command flags pass through
// untouched.
func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	i := 0

	for i < len(args) {
		arg := args[i]

		take := func(name string) (string, error) {
			if i+1 >= len(args) {
				return "", errFlagRequiresArg(name)
			}

			i++

			return args[i], nil
		}

		switch arg {
		case "--config":
			val, err := take(arg)
			if err != nil {
				return globalFlags{}, err
			}

			flags.configPath = val
		case "--data-root":
			val, err := take(arg)
			if err != nil {
				return globalFlags{}, err
			}

			flags.dataRoot = val
		case "--user":
			val, err := take(arg)
			if err != nil {
				return globalFlags{}, err
			}

			flags.user = val
		default:
			flags.remaining = args[i:]

			return flags, nil
		}

		i++
	}

	return flags, nil
}

// resolveUser picks the reviewer identity: explicit flag, then
// $CANDREVIEW_USER, then $USER.
func resolveUser(flagUser string) string {
	if flagUser != "" {
		return flagUser
	}

	if u := os.Getenv("CANDREVIEW_USER"); u != "" {
		return u
	}

	return os.Getenv("USER")
}

func printUsage(o *IO) {
	o.Println("Usage: candreview [global flags] <command> [args]")
	o.Println()
	o.Println("Collaborative review of per-night candidate tables.")
	o.Println()
	o.Println("Commands:")

	for _, c := range commands() {
		o.Println(c.HelpLine())
	}

	o.Println()
	o.Println("Global flags:")
	o.Println("  --config <path>     config file (default .candreview.json)")
	o.Println("  --data-root <path>  data root holding one directory per date")
	o.Println("  --user <name>       reviewer identity (default $CANDREVIEW_USER or $USER)")
}
