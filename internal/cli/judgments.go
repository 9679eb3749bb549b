package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/surveyops/candreview/internal/review"
)

func cmdJudgments() *Command {
	flags := flag.NewFlagSet("judgments", flag.ContinueOnError)
	asJSON := flags.Bool("json", false, "emit judgments as JSON keyed by row index")

	return &Command{
		Flags: flags,
		Usage: "judgments <date> [flags]",
		Short: "Show all judgments for a date",
		Long: "Print every annotated row: each reviewer's verdict, the final\n" +
			"aggregate and who wrote it, and the remark if any.",
		Exec: func(ctx context.Context, app *App, args []string) error {
			if len(args) < 1 {
				return errDateRequired
			}

			judgments, err := app.Store.Judgments(ctx, args[0])
			if err != nil {
				return err
			}

			if *asJSON {
				data, err := json.MarshalIndent(judgmentsJSON(judgments), "", "  ")
				if err != nil {
					return fmt.Errorf("encode judgments: %w", err)
				}

				app.IO.Println(string(data))

				return nil
			}

			if len(judgments) == 0 {
				app.IO.Println("no judgments yet")

				return nil
			}

			rows := make([]int, 0, len(judgments))
			for row := range judgments {
				rows = append(rows, row)
			}

			sort.Ints(rows)

			for _, row := range rows {
				j := judgments[row]

				var parts []string

				users := make([]string, 0, len(j.Users))
				for user := range j.Users {
					users = append(users, user)
				}

				sort.Strings(users)

				for _, user := range users {
					parts = append(parts, fmt.Sprintf("%s=%s", user, j.Users[user]))
				}

				if j.Final != "" {
					parts = append(parts, fmt.Sprintf("final=%s by %s", j.Final, j.FinalBy))
				}

				if j.Remark != "" {
					parts = append(parts, fmt.Sprintf("remark=%q", j.Remark))
				}

				app.IO.Printf("row %d: %s\n", row, strings.Join(parts, ", "))
			}

			return nil
		},
	}
}

// judgmentJSON is the wire shape of one row's aggregate.
type judgmentJSON struct {
	Users   map[string]string `json:"users"`
	Final   string            `json:"final,omitempty"`
	FinalBy string            `json:"final_by,omitempty"`
	Remark  string            `json:"remark,omitempty"`
}

// judgmentsJSON keys rows by their decimal index, matching what a web UI
// polling this data expects.
func judgmentsJSON(in map[int]review.RowJudgment) map[string]judgmentJSON {
	out := make(map[string]judgmentJSON, len(in))

	for row, j := range in {
		out[strconv.Itoa(row)] = judgmentJSON{
			Users:   j.Users,
			Final:   j.Final,
			FinalBy: j.FinalBy,
			Remark:  j.Remark,
		}
	}

	return out
}
