package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/surveyops/candreview/internal/review"
)

func cmdJudge() *Command {
	return &Command{
		Usage: "judge <date> <row> <verdict>",
		Short: "Record a verdict on a row",
		Long: "Record your verdict (exclude, suspect) on a candidate row, or cancel\n" +
			"to clear it. A verdict also updates the row's final_judge aggregate;\n" +
			"cancel clears your column and the aggregate.",
		Exec: func(ctx context.Context, app *App, args []string) error {
			if len(args) < 1 {
				return errDateRequired
			}

			if len(args) < 2 {
				return errRowRequired
			}

			if len(args) < 3 {
				return errVerdictRequired
			}

			if app.User == "" {
				return errUserRequired
			}

			row, err := strconv.Atoi(args[1])
			if err != nil {
				return errRowRequired
			}

			verdict := review.Verdict(args[2])

			err = app.Store.SubmitJudgment(ctx, args[0], row, app.User, verdict)
			if err != nil {
				return err
			}

			app.IO.Printf("row %d: %s by %s\n", row, verdict, app.User)

			return nil
		},
	}
}

func cmdRemark() *Command {
	return &Command{
		Usage: "remark <date> <row> <text...>",
		Short: "Set a row's free-text remark",
		Long: "Overwrite the row's remark. Remarks are shared between reviewers and\n" +
			"independent of verdicts; the latest submission wins.",
		Exec: func(ctx context.Context, app *App, args []string) error {
			if len(args) < 1 {
				return errDateRequired
			}

			if len(args) < 2 {
				return errRowRequired
			}

			if len(args) < 3 {
				return errRemarkRequired
			}

			row, err := strconv.Atoi(args[1])
			if err != nil {
				return errRowRequired
			}

			text := strings.Join(args[2:], " ")

			err = app.Store.SubmitRemark(ctx, args[0], row, text)
			if err != nil {
				return err
			}

			app.IO.Printf("row %d: remark saved\n", row)

			return nil
		},
	}
}
