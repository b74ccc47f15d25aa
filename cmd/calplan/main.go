package main

import (
	"os"

	"github.com/pablasso/calplan/internal/cli"
)

func main() {
	// With no subcommand the root command launches the planner.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
