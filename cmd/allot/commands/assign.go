package commands

import (
	"os"
	"slices"
	"strings"

	"github.com/dyluth/allot/internal/assign"
	"github.com/dyluth/allot/internal/config"
	"github.com/dyluth/allot/internal/printer"
	"github.com/dyluth/allot/internal/report"
	"github.com/dyluth/allot/internal/roster"
	"github.com/dyluth/allot/internal/verify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	assignStudents string
	assignProjects string
	assignOutput   string
	assignReport   string
	assignSeed     uint64
	assignPolicy   string
	assignFormat   string
	assignNoSort   bool
	assignLocale   string
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Draw a project for every student",
	Long: `Draw a project for every student and write the result.

Each student gets a project that is owned by another group and whose case
study differs from their own group's. Draws are independent, so several
students can land on the same project.

When a group has fewer eligible projects than students, the fallback policy
decides what happens:
  widen  - draw from every project for that group (default; may break the rules)
  strict - keep drawing from the eligible projects only

Outputs:
  assignments.csv - CSV table, one row per assignment
  assignments.txt - the same table, aligned for reading

Console formats:
  default - one summary line per assignment plus distribution and checks
  table   - the aligned table plus distribution and checks
  jsonl   - line-delimited JSON only (messages go to stderr)

Examples:
  # Use allot.yml or the defaults
  allot assign

  # Reproduce an earlier run
  allot assign --seed 1234

  # Never hand out an ineligible project
  allot assign --policy strict`,
	RunE: runAssign,
}

func init() {
	assignCmd.Flags().StringVar(&assignStudents, "students", "", "Students file (default from config: students.csv)")
	assignCmd.Flags().StringVar(&assignProjects, "projects", "", "Projects file (default from config: projects.csv)")
	assignCmd.Flags().StringVarP(&assignOutput, "output", "o", "", "CSV output file (default from config: assignments.csv)")
	assignCmd.Flags().StringVar(&assignReport, "report", "", "Report output file (default from config: assignments.txt)")
	assignCmd.Flags().Uint64Var(&assignSeed, "seed", 0, "Seed for the random source (random when omitted)")
	assignCmd.Flags().StringVar(&assignPolicy, "policy", "", "Fallback policy: widen or strict")
	assignCmd.Flags().StringVar(&assignFormat, "format", "", "Console format: default, table or jsonl")
	assignCmd.Flags().BoolVar(&assignNoSort, "no-sort", false, "Keep draw order in the written files instead of sorting by name")
	assignCmd.Flags().StringVar(&assignLocale, "locale", "", "Locale used to sort names (e.g. es, de, und)")

	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return printer.Error(
			"invalid configuration",
			err.Error(),
			[]string{"Create a fresh config:\n  allot init"},
		)
	}

	flags := cmd.Flags()
	if assignStudents != "" {
		cfg.Paths.Students = assignStudents
	}
	if assignProjects != "" {
		cfg.Paths.Projects = assignProjects
	}
	if assignOutput != "" {
		cfg.Paths.Assignments = assignOutput
	}
	if assignReport != "" {
		cfg.Paths.Report = assignReport
	}
	if flags.Changed("seed") {
		seed := assignSeed
		cfg.Assignment.Seed = &seed
	}
	if assignPolicy != "" {
		cfg.Assignment.Policy = assignPolicy
	}
	if assignFormat != "" {
		cfg.Output.Format = assignFormat
	}
	if assignNoSort {
		sortByName := false
		cfg.Output.SortByName = &sortByName
	}
	if assignLocale != "" {
		cfg.Output.Locale = assignLocale
	}

	if err := cfg.Validate(); err != nil {
		return printer.Error("invalid options", err.Error(), []string{"See 'allot assign --help'"})
	}

	return executeAssign(cfg, logger)
}

// executeAssign runs load, assign, verify and write for a validated config.
func executeAssign(cfg *config.AllotConfig, log *zap.Logger) error {
	format, _ := report.ParseOutputFormat(cfg.Output.Format)
	if format == report.OutputFormatJSONL {
		// Keep stdout clean for the JSON stream
		restore := printer.SetOutput(os.Stderr, os.Stderr)
		defer restore()
	}

	printer.Step("Loading %s and %s\n", cfg.Paths.Students, cfg.Paths.Projects)
	students, err := roster.LoadStudents(cfg.Paths.Students)
	if err != nil {
		return inputError("students", cfg.Paths.Students, err)
	}
	projects, err := roster.LoadProjects(cfg.Paths.Projects)
	if err != nil {
		return inputError("projects", cfg.Paths.Projects, err)
	}
	log.Debug("Inputs loaded", zap.Int("students", len(students)), zap.Int("projects", len(projects)))

	opts := []assign.Option{assign.WithPolicy(cfg.Policy()), assign.WithLogger(log)}
	if cfg.Assignment.Seed != nil {
		opts = append(opts, assign.WithSeed(*cfg.Assignment.Seed))
	}
	result := assign.New(opts...).Run(students, projects)
	log.Info("Assignment run finished",
		zap.String("run_id", result.RunID),
		zap.Uint64("seed", result.Seed),
		zap.Int("assigned", len(result.Assignments)),
		zap.Int("failed", len(result.Failures)),
	)

	printWarnings(result.Warnings)
	printFailures(result.Failures)

	written := slices.Clone(result.Assignments)
	if *cfg.Output.SortByName {
		if err := report.SortByStudent(written, cfg.Output.Locale); err != nil {
			return printer.Error("invalid locale", err.Error(), []string{"Use a BCP 47 tag such as 'es', 'de' or 'und'"})
		}
	}

	if err := report.SaveCSV(cfg.Paths.Assignments, written); err != nil {
		return outputError("assignments", cfg.Paths.Assignments, err)
	}
	if err := report.SaveTable(cfg.Paths.Report, written); err != nil {
		return outputError("report", cfg.Paths.Report, err)
	}

	// Console output follows draw order
	if format == report.OutputFormatJSONL {
		if err := report.FormatJSONL(os.Stdout, result.Assignments); err != nil {
			return printer.Error("failed to write output", err.Error(), nil)
		}
	} else {
		printer.Heading("\nStudent Project Assignments:\n")
		if err := report.Write(printer.Stdout(), format, result.Assignments); err != nil {
			return printer.Error("failed to write output", err.Error(), nil)
		}
		printDistribution(result.Assignments)
	}

	summary := printVerdicts(verify.Check(result.Assignments, projects))
	rc := result.Reconcile(students)

	printer.Println()
	printer.Success("Wrote %d assignments to %s and %s\n", len(written), cfg.Paths.Assignments, cfg.Paths.Report)
	printer.Info("Run %s (seed %d, policy %s): %d students, %d assigned, %d without a project, %d violations\n",
		result.RunID, result.Seed, result.Policy, rc.Students, rc.Assigned, rc.Failed, summary.Violations)
	if len(result.Widened) > 0 {
		printer.Warning("Widened groups may hold ineligible assignments: %s\n", strings.Join(widenedGroups(result), ", "))
	}
	if !rc.OK() {
		printer.Warning("Outcome count mismatch: missing %v, duplicated %v\n", rc.Missing, rc.Doubled)
	}

	return nil
}

// widenedGroups lists widened groups in processing order.
func widenedGroups(result *assign.Result) []string {
	var groups []string
	for _, g := range result.GroupOrder {
		if result.Widened[g] {
			groups = append(groups, g)
		}
	}
	return groups
}
