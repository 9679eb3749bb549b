// Package main provides candreview, collaborative review of per-night
// candidate tables.
package main

import (
	"os"

	"github.com/surveyops/candreview/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args))
}
