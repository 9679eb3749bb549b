package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"
)

func cmdConsole() *Command {
	return &Command{
		Usage: "console",
		Short: "Interactive review session",
		Long: "Start an interactive session against the data root. Inside one\n" +
			"long-lived process the presence commands (watch, who) show which\n" +
			"reviewer is on which row; entries expire a few seconds after the\n" +
			"last watch.",
		Exec: func(ctx context.Context, app *App, _ []string) error {
			return runConsole(ctx, app)
		},
	}
}

// consoleWords feeds tab completion.
var consoleWords = []string{
	"dates", "rows", "judge", "remark", "judgments",
	"sync", "reset", "watch", "who", "help", "quit",
}

func runConsole(ctx context.Context, app *App) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string

		for _, w := range consoleWords {
			if strings.HasPrefix(w, prefix) {
				out = append(out, w)
			}
		}

		return out
	})

	app.IO.Println("candreview console - type 'help' for commands, 'quit' to leave")

	for {
		input, err := line.Prompt("candreview> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		fields := strings.Fields(input)
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}

		err = consoleDispatch(ctx, app, fields)
		if err != nil {
			app.IO.Errorln("error:", err)
		}
	}
}

func consoleDispatch(ctx context.Context, app *App, fields []string) error {
	name, args := fields[0], fields[1:]

	switch name {
	case "help":
		printConsoleHelp(app.IO)

		return nil
	case "watch":
		return consoleWatch(app, args)
	case "who":
		return consoleWho(app, args)
	case "dates", "rows", "judge", "remark", "judgments", "sync", "reset":
		for _, c := range commands() {
			if c.Name() == name {
				// Commands print errors through Run; exit codes are
				// irrelevant inside the console.
				c.Run(ctx, app, args)

				return nil
			}
		}

		return fmt.Errorf("command %s not wired", name)
	default:
		return fmt.Errorf("unknown command: %s", name)
	}
}

// consoleWatch marks the session's reviewer as viewing a row and shows who
// else is on the date.
func consoleWatch(app *App, args []string) error {
	if len(args) < 1 {
		return errDateRequired
	}

	if len(args) < 2 {
		return errRowRequired
	}

	if app.User == "" {
		return errUserRequired
	}

	row, err := strconv.Atoi(args[1])
	if err != nil {
		return errRowRequired
	}

	app.Presence.Touch(args[0], app.User, row)

	return consoleWho(app, args[:1])
}

// consoleWho lists reviewers currently active on a date.
func consoleWho(app *App, args []string) error {
	if len(args) < 1 {
		return errDateRequired
	}

	entries := app.Presence.Snapshot(args[0])
	if len(entries) == 0 {
		app.IO.Println("nobody here")

		return nil
	}

	users := make([]string, 0, len(entries))
	for user := range entries {
		users = append(users, user)
	}

	sort.Strings(users)

	for _, user := range users {
		app.IO.Printf("%s\trow %d\t%s\n", user, entries[user].Row,
			entries[user].LastSeen.Format("15:04:05"))
	}

	return nil
}

func printConsoleHelp(o *IO) {
	o.Println("  dates                         list dates")
	o.Println("  rows <date>                   show the working snapshot")
	o.Println("  judge <date> <row> <verdict>  record exclude/suspect/cancel")
	o.Println("  remark <date> <row> <text>    set a row's remark")
	o.Println("  judgments <date>              show all judgments")
	o.Println("  sync <date>                   pull new source rows")
	o.Println("  reset <date>                  discard annotations")
	o.Println("  watch <date> <row>            mark yourself on a row")
	o.Println("  who <date>                    show active reviewers")
	o.Println("  quit                          leave the console")
}
