package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags. May be nil.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "candreview" in
	// help. Includes the command name and arguments/flags.
	// Examples: "judge <date> <row> <verdict> [flags]", "sync <date>"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, app *App, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-38s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "candreview <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: candreview", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command. Returns exit code.
func (c *Command) Run(ctx context.Context, app *App, args []string) int {
	if hasHelpFlag(args) {
		c.PrintHelp(app.IO)

		return 0
	}

	if c.Flags != nil {
		c.Flags.SetOutput(app.IO.ErrOut)

		err := c.Flags.Parse(args)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				c.PrintHelp(app.IO)

				return 0
			}

			app.IO.Errorln("error:", err)

			return 2
		}

		args = c.Flags.Args()
	}

	err := c.Exec(ctx, app, args)
	if err != nil {
		app.IO.Errorln("error:", err)

		return 1
	}

	return 0
}

func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}

		if a == "--" {
			return false
		}
	}

	return false
}
