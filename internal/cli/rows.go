package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"
)

func cmdRows() *Command {
	flags := flag.NewFlagSet("rows", flag.ContinueOnError)
	limit := flags.Int("limit", 0, "show at most N rows (0 = all)")
	offset := flags.Int("offset", 0, "skip the first N rows")

	return &Command{
		Flags: flags,
		Usage: "rows <date> [flags]",
		Short: "Show the date's working snapshot",
		Long: "Print the working snapshot for a date, creating it from the source\n" +
			"table if this is the date's first request. The first column is the\n" +
			"stable 1-based row index used by judge/remark/files.",
		Exec: func(ctx context.Context, app *App, args []string) error {
			if len(args) < 1 {
				return errDateRequired
			}

			set, err := app.Store.Rows(ctx, args[0])
			if err != nil {
				return err
			}

			rows := set.Rows
			if *offset > 0 && *offset < len(rows) {
				rows = rows[*offset:]
			} else if *offset >= len(rows) {
				rows = nil
			}

			if *limit > 0 && *limit < len(rows) {
				rows = rows[:*limit]
			}

			app.IO.Println("snapshot:", set.SnapshotName)
			app.IO.Println("#\t" + strings.Join(set.Headers, "\t"))

			for _, row := range rows {
				app.IO.Printf("%d\t%s\n", row.Index, strings.Join(row.Data, "\t"))
			}

			return nil
		},
	}
}
