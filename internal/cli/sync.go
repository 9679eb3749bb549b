package cli

import (
	"context"
)

func cmdSync() *Command {
	return &Command{
		Usage: "sync <date>",
		Short: "Pull new source rows into the snapshot",
		Long: "Append rows the upstream source gained since the snapshot was created\n" +
			"or last synced. Existing rows and annotations are never touched; the\n" +
			"call is a no-op when the source has nothing new.",
		Exec: func(ctx context.Context, app *App, args []string) error {
			if len(args) < 1 {
				return errDateRequired
			}

			result, err := app.Store.SyncNewRows(ctx, args[0])
			if err != nil {
				return err
			}

			app.IO.Printf("added %d rows, %d total\n", result.Added, result.Total)

			return nil
		},
	}
}

func cmdSnapshot() *Command {
	return &Command{
		Usage: "snapshot <date>",
		Short: "Resolve or create the date's working snapshot",
		Exec: func(ctx context.Context, app *App, args []string) error {
			if len(args) < 1 {
				return errDateRequired
			}

			path, err := app.Store.Snapshot(ctx, args[0])
			if err != nil {
				return err
			}

			app.IO.Println(path)

			return nil
		},
	}
}

func cmdReset() *Command {
	return &Command{
		Usage: "reset <date>",
		Short: "Discard the date's annotations and start over",
		Long: "Delete the date's working snapshot, including every judgment and\n" +
			"remark, and copy the source table afresh. There is no undo.",
		Exec: func(ctx context.Context, app *App, args []string) error {
			if len(args) < 1 {
				return errDateRequired
			}

			path, err := app.Store.Reset(ctx, args[0])
			if err != nil {
				return err
			}

			app.IO.Println("fresh snapshot:", path)

			return nil
		},
	}
}
