package main

import (
	"os"

	"github.com/dyluth/allot/cmd/allot/commands"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Set version information on root command
	commands.SetVersionInfo(version, commit, date)

	// Execute root command
	// Errors are printed by the printer package before Execute returns
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
