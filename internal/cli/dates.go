package cli

import (
	"context"
)

func cmdDates() *Command {
	return &Command{
		Usage: "dates",
		Short: "List dates under the data root",
		Long: "List all date directories under the data root, newest first.\n" +
			"Dates whose source table has not arrived yet are marked (no data).",
		Exec: func(ctx context.Context, app *App, _ []string) error {
			dates, err := app.Store.Dates(ctx)
			if err != nil {
				return err
			}

			if len(dates) == 0 {
				app.IO.Println("no dates found")

				return nil
			}

			for _, d := range dates {
				if d.HasData {
					app.IO.Println(d.Date)
				} else {
					app.IO.Println(d.Date, "(no data)")
				}
			}

			return nil
		},
	}
}
