package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dyluth/allot/internal/assign"
	"github.com/olekukonko/tablewriter"
)

// OutputFormat selects how assignments are shown on the console.
type OutputFormat string

const (
	// OutputFormatDefault prints one summary line per assignment
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatTable prints the aligned report table
	OutputFormatTable OutputFormat = "table"

	// OutputFormatJSONL prints one JSON object per assignment
	OutputFormatJSONL OutputFormat = "jsonl"
)

// ParseOutputFormat validates an output format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatDefault, OutputFormatTable, OutputFormatJSONL:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// FormatTable writes assignments as an aligned table with the fixed header
// and returns the number of rows written.
func FormatTable(w io.Writer, assignments []assign.Assignment) (int, error) {
	table := tablewriter.NewWriter(w)
	table.Header(
		Header[0],
		Header[1],
		Header[2],
		Header[3],
		Header[4],
	)

	for _, a := range assignments {
		if err := table.Append(Row(a)); err != nil {
			return 0, fmt.Errorf("failed to add row for %s: %w", a.Student, err)
		}
	}

	if err := table.Render(); err != nil {
		return 0, fmt.Errorf("failed to render table: %w", err)
	}
	return len(assignments), nil
}

// SaveTable writes the human-readable report to path.
func SaveTable(path string, assignments []assign.Assignment) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := FormatTable(w, assignments)
		return err
	})
}

// FormatSummary writes one line per assignment in the form
// "<student> (from <group>) is assigned to '<project>' (Case Study: <case>)".
func FormatSummary(w io.Writer, assignments []assign.Assignment) error {
	for _, a := range assignments {
		if _, err := fmt.Fprintf(w, "%s (from %s) is assigned to '%s' (Case Study: %s)\n",
			a.Student, a.OriginalGroup, a.AssignedProject, a.AssignedCaseStudy); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

// FormatJSONL writes each assignment as a single-line JSON object.
func FormatJSONL(w io.Writer, assignments []assign.Assignment) error {
	for _, a := range assignments {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to marshal assignment to JSON: %w", err)
		}

		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// Write renders assignments in the requested console format.
func Write(w io.Writer, format OutputFormat, assignments []assign.Assignment) error {
	switch format {
	case OutputFormatDefault:
		return FormatSummary(w, assignments)
	case OutputFormatTable:
		_, err := FormatTable(w, assignments)
		return err
	case OutputFormatJSONL:
		return FormatJSONL(w, assignments)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
