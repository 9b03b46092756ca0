package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/dyluth/allot/internal/printer"
	"github.com/dyluth/allot/internal/report"
	"github.com/dyluth/allot/internal/roster"
	"github.com/dyluth/allot/internal/verify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verifyProjects   string
	verifyStrictExit bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [ASSIGNMENTS_CSV]",
	Short: "Check a saved assignments file against the projects",
	Long: `Check every row of an assignments CSV against the project list.

Each row is reported as OK or as an error when the student got their own
group's project, a project on their group's case study, or a project missing
from the project list. Distribution counts are printed as well.

The file defaults to the assignments path from allot.yml (assignments.csv).
Violations are reported but do not fail the command unless --strict-exit is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyProjects, "projects", "", "Projects file (default from config: projects.csv)")
	verifyCmd.Flags().BoolVar(&verifyStrictExit, "strict-exit", false, "Exit with an error when any violation is found")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return printer.Error("invalid configuration", err.Error(), nil)
	}

	assignmentsPath := cfg.Paths.Assignments
	if len(args) > 0 {
		assignmentsPath = args[0]
	}
	projectsPath := cfg.Paths.Projects
	if verifyProjects != "" {
		projectsPath = verifyProjects
	}

	return executeVerify(projectsPath, assignmentsPath, verifyStrictExit, logger)
}

// executeVerify re-checks a saved assignments file.
func executeVerify(projectsPath, assignmentsPath string, strictExit bool, log *zap.Logger) error {
	projects, err := roster.LoadProjects(projectsPath)
	if err != nil {
		return inputError("projects", projectsPath, err)
	}

	assignments, err := report.LoadCSV(assignmentsPath)
	if err != nil {
		var herr *report.HeaderError
		if errors.As(err, &herr) {
			return printer.ErrorWithContext(
				"not an assignments file",
				err.Error(),
				map[string]string{"File": assignmentsPath},
				[]string{"Produce one with:\n  allot assign"},
			)
		}
		if errors.Is(err, os.ErrNotExist) {
			return printer.Error(
				"assignments file not found",
				fmt.Sprintf("Could not open %s", assignmentsPath),
				[]string{"Produce one with:\n  allot assign"},
			)
		}
		return printer.ErrorWithContext(
			"failed to read assignments file",
			err.Error(),
			map[string]string{"File": assignmentsPath},
			nil,
		)
	}
	log.Debug("Verifying", zap.String("file", assignmentsPath), zap.Int("assignments", len(assignments)))

	printDistribution(assignments)
	summary := printVerdicts(verify.Check(assignments, projects))

	printer.Println()
	printer.Info("%d assignments: %d OK, %d violations, %d unknown projects\n",
		summary.Total, summary.OK, summary.Violations, summary.Unknown)

	if strictExit && summary.Violations+summary.Unknown > 0 {
		return printer.Error(
			"assignment violations found",
			fmt.Sprintf("%d of %d assignments break the eligibility rule", summary.Violations+summary.Unknown, summary.Total),
			[]string{"Draw again without the fallback:\n  allot assign --policy strict"},
		)
	}
	if summary.Violations == 0 && summary.Unknown == 0 {
		printer.Success("All assignments are eligible\n")
	}
	return nil
}
