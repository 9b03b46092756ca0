// Package roster loads the student and project tables that feed an assignment run.
//
// Both inputs are plain comma-separated files with one record per line and no
// header row. Records keep their file order.
package roster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// StudentFields is the number of fields on a students line: name, group
	StudentFields = 2

	// ProjectFields is the number of fields on a projects line: name, owner group, case study
	ProjectFields = 3
)

// Student is a single student and the group they belong to.
type Student struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

// Project is a project owned by one group and tagged with a case study.
type Project struct {
	Name       string `json:"name"`
	OwnerGroup string `json:"owner_group"`
	CaseStudy  string `json:"case_study"`
}

// ParseError reports a line that does not split into the expected number of fields.
type ParseError struct {
	Path     string // Empty when reading from a bare io.Reader
	Line     int
	Expected int
	Got      int
	Err      error
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		where = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Got > 0 {
		return fmt.Sprintf("%s: expected %d fields, got %d", where, e.Expected, e.Got)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrFieldCount is the cause of a ParseError for a line with the wrong number of fields.
var ErrFieldCount = errors.New("wrong number of fields")

// ReadRecords reads one record per line, split on every comma. Quotes get no
// special treatment and a blank line counts as a record with one empty field,
// so both fail the field count. Fields are trimmed and NFC-normalized.
func ReadRecords(r io.Reader, fields int) ([][]string, error) {
	scanner := bufio.NewScanner(r)

	var records [][]string
	line := 0
	for scanner.Scan() {
		line++
		record := strings.Split(strings.TrimSpace(scanner.Text()), ",")
		if len(record) != fields {
			return nil, &ParseError{Line: line, Expected: fields, Got: len(record), Err: ErrFieldCount}
		}

		for i := range record {
			record[i] = cleanField(record[i])
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line %d: %w", line+1, err)
	}

	return records, nil
}

// LoadStudents reads name,group records from path.
func LoadStudents(path string) ([]Student, error) {
	records, err := readFile(path, StudentFields)
	if err != nil {
		return nil, err
	}

	students := make([]Student, 0, len(records))
	for _, rec := range records {
		students = append(students, Student{Name: rec[0], Group: rec[1]})
	}
	return students, nil
}

// LoadProjects reads name,owner group,case study records from path.
func LoadProjects(path string) ([]Project, error) {
	records, err := readFile(path, ProjectFields)
	if err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(records))
	for _, rec := range records {
		projects = append(projects, Project{Name: rec[0], OwnerGroup: rec[1], CaseStudy: rec[2]})
	}
	return projects, nil
}

// GroupMembers is one group and its students in file order.
type GroupMembers struct {
	Group    string
	Students []Student
}

// Groups partitions students by group. Groups appear in order of first
// appearance and students keep their file order within a group.
func Groups(students []Student) []GroupMembers {
	index := make(map[string]int)
	var groups []GroupMembers

	for _, s := range students {
		i, ok := index[s.Group]
		if !ok {
			i = len(groups)
			index[s.Group] = i
			groups = append(groups, GroupMembers{Group: s.Group})
		}
		groups[i].Students = append(groups[i].Students, s)
	}

	return groups
}

func readFile(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f, fields)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return records, nil
}

func cleanField(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
