package cli

import (
	"context"
	"strconv"

	"github.com/surveyops/candreview/internal/review"
)

func cmdFiles() *Command {
	return &Command{
		Usage: "files <date> <row>",
		Short: "List a row's image artifacts by epoch",
		Long: "Locate the fits and jpg artifacts belonging to a candidate row,\n" +
			"grouped by acquisition epoch with the earlier epoch first.",
		Exec: func(ctx context.Context, app *App, args []string) error {
			if len(args) < 1 {
				return errDateRequired
			}

			if len(args) < 2 {
				return errRowRequired
			}

			row, err := strconv.Atoi(args[1])
			if err != nil {
				return errRowRequired
			}

			set, err := app.Store.RowFiles(ctx, args[0], row)
			if err != nil {
				return err
			}

			printEpoch(app.IO, "left", set.LeftTime, set.Left)
			printEpoch(app.IO, "right", set.RightTime, set.Right)

			if set.RAHMS != "" || set.DecDMS != "" {
				app.IO.Println("coords:", set.RAHMS, set.DecDMS)
			}

			return nil
		},
	}
}

func printEpoch(o *IO, side, when string, files []review.RowFile) {
	if when == "" && len(files) == 0 {
		return
	}

	o.Printf("%s (%s):\n", side, when)

	if len(files) == 0 {
		o.Println("  (no artifacts on disk)")

		return
	}

	for _, f := range files {
		if f.Subtype != "" {
			o.Printf("  %s\t%s/%s\n", f.Name, f.Type, f.Subtype)
		} else {
			o.Printf("  %s\t%s\n", f.Name, f.Type)
		}
	}
}
