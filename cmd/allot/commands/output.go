package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dyluth/allot/internal/assign"
	"github.com/dyluth/allot/internal/printer"
	"github.com/dyluth/allot/internal/roster"
	"github.com/dyluth/allot/internal/verify"
)

// inputError turns a loader error into a printed, user-facing error.
func inputError(kind, path string, err error) error {
	var perr *roster.ParseError
	if errors.As(err, &perr) {
		return printer.ErrorWithContext(
			fmt.Sprintf("failed to parse %s file", kind),
			perr.Error(),
			map[string]string{
				"File": path,
				"Line": strconv.Itoa(perr.Line),
			},
			[]string{fmt.Sprintf("Every %s line must have exactly %d comma-separated fields", kind, perr.Expected)},
		)
	}
	if errors.Is(err, os.ErrNotExist) {
		return printer.Error(
			fmt.Sprintf("%s file not found", kind),
			fmt.Sprintf("Could not open %s", path),
			[]string{
				fmt.Sprintf("Pass the file explicitly:\n  allot assign --%s <path>", kind),
				"Create example inputs:\n  allot init",
			},
		)
	}
	return printer.ErrorWithContext(
		fmt.Sprintf("failed to read %s file", kind),
		err.Error(),
		map[string]string{"File": path},
		nil,
	)
}

// outputError reports a file that could not be written.
func outputError(kind, path string, err error) error {
	return printer.ErrorWithContext(
		fmt.Sprintf("failed to write %s file", kind),
		err.Error(),
		map[string]string{"File": path},
		[]string{"Check that the directory exists and is writable"},
	)
}

func printWarnings(warnings []assign.Warning) {
	for _, w := range warnings {
		printer.Warning("Warning: %s\n", w.Detail)
	}
}

func printFailures(failures []assign.Failure) {
	for _, f := range failures {
		printer.Problem("Error: No suitable project found for %s from %s\n", f.Student, f.Group)
	}
}

func printDistribution(assignments []assign.Assignment) {
	byProject, byCase := verify.Distribution(assignments)

	printer.Heading("\nProject distribution:\n")
	for _, c := range byProject {
		printer.Printf("'%s': %d\n", c.Key, c.Count)
	}

	printer.Heading("\nCase Study distribution:\n")
	for _, c := range byCase {
		printer.Printf("'%s': %d\n", c.Key, c.Count)
	}
}

func printVerdicts(verdicts []verify.Verdict) verify.Summary {
	printer.Heading("\nVerifying assignments:\n")
	for _, v := range verdicts {
		if v.Status == verify.StatusOK {
			printer.OK("%s\n", v.Message())
		} else {
			printer.Problem("%s\n", v.Message())
		}
	}
	return verify.Summarize(verdicts)
}
