package commands

import (
	"github.com/dyluth/allot/internal/printer"
	"github.com/dyluth/allot/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter allot.yml and example inputs",
	Long: `Create a starter project in the current directory.

Creates:
  • allot.yml    - Configuration file
  • students.csv - Example roster (name,group)
  • projects.csv - Example projects (project,owner group,case study)

Use --force to overwrite existing files (WARNING: replaces your inputs).`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite existing allot.yml, students.csv and projects.csv")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to initialize")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	// Check for existing files (unless --force)
	if !forceInit {
		if err := scaffold.CheckExisting(initDir); err != nil {
			return printer.Error("cannot initialize", err.Error(), nil)
		}
	}

	// Initialize the project
	if err := scaffold.Initialize(initDir, forceInit); err != nil {
		return printer.ErrorWithContext(
			"initialization failed",
			err.Error(),
			map[string]string{"Directory": initDir},
			nil,
		)
	}

	// Print success message
	scaffold.PrintSuccess()

	return nil
}
