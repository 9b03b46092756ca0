// Package report writes assignments out as a CSV table, an aligned text
// report and JSONL, and reads the CSV table back.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dyluth/allot/internal/assign"
)

// Header is the fixed column header shared by every output format.
var Header = []string{
	"Student",
	"Original Group",
	"Original Case Study",
	"Assigned Project",
	"Assigned Project Case Study",
}

// HeaderError is returned when a CSV file does not start with Header.
type HeaderError struct {
	Got []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("unexpected header: %q (expected %q)", strings.Join(e.Got, ","), strings.Join(Header, ","))
}

// Row flattens an assignment into Header column order.
func Row(a assign.Assignment) []string {
	return []string{a.Student, a.OriginalGroup, a.OriginalCaseStudy, a.AssignedProject, a.AssignedCaseStudy}
}

// WriteCSV writes the header row followed by one row per assignment.
func WriteCSV(w io.Writer, assignments []assign.Assignment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, a := range assignments {
		if err := cw.Write(Row(a)); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", a.Student, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) ([]assign.Assignment, error) {
	// The header row pins the field count for the rest of the file
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &HeaderError{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if !sameHeader(header) {
		return nil, &HeaderError{Got: header}
	}

	var assignments []assign.Assignment
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read assignment: %w", err)
		}
		assignments = append(assignments, assign.Assignment{
			Student:           rec[0],
			OriginalGroup:     rec[1],
			OriginalCaseStudy: rec[2],
			AssignedProject:   rec[3],
			AssignedCaseStudy: rec[4],
		})
	}
	return assignments, nil
}

// SaveCSV writes assignments to path, replacing any existing file.
func SaveCSV(path string, assignments []assign.Assignment) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteCSV(w, assignments)
	})
}

// LoadCSV reads an assignments table from path.
func LoadCSV(path string) ([]assign.Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	assignments, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return assignments, nil
}

func sameHeader(got []string) bool {
	if len(got) != len(Header) {
		return false
	}
	for i := range Header {
		if strings.TrimSpace(strings.TrimPrefix(got[i], "\ufeff")) != Header[i] {
			return false
		}
	}
	return true
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
