package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dyluth/allot/internal/config"
	"github.com/dyluth/allot/internal/printer"
	"github.com/dyluth/allot/internal/report"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// workspace writes the inputs into a temp dir and returns a validated config
// pointing at it.
func workspace(t *testing.T, students, projects string) *config.AllotConfig {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.AllotConfig{
		Version: "1.0",
		Paths: &config.PathsConfig{
			Students:    filepath.Join(dir, "students.csv"),
			Projects:    filepath.Join(dir, "projects.csv"),
			Assignments: filepath.Join(dir, "assignments.csv"),
			Report:      filepath.Join(dir, "assignments.txt"),
		},
	}
	require.NoError(t, cfg.Validate())

	require.NoError(t, os.WriteFile(cfg.Paths.Students, []byte(students), 0644))
	require.NoError(t, os.WriteFile(cfg.Paths.Projects, []byte(projects), 0644))
	return cfg
}

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prevNoColor := color.NoColor
	color.NoColor = true

	var out, errOut bytes.Buffer
	restore := printer.SetOutput(&out, &errOut)
	t.Cleanup(func() {
		restore()
		color.NoColor = prevNoColor
	})
	return &out, &errOut
}

func seeded(cfg *config.AllotConfig, seed uint64) *config.AllotConfig {
	cfg.Assignment.Seed = &seed
	return cfg
}

const (
	scenarioStudents = "s1,A\ns2,B\ns3,C\n"
	scenarioProjects = "P_A,A,C1\nP_B,B,C1\nP_C,C,C2\n"
)

func TestExecuteAssign_WritesBothOutputs(t *testing.T) {
	cfg := seeded(workspace(t, scenarioStudents, scenarioProjects), 3)
	out, _ := captureOutput(t)

	require.NoError(t, executeAssign(cfg, zap.NewNop()))

	assignments, err := report.LoadCSV(cfg.Paths.Assignments)
	require.NoError(t, err)
	require.Len(t, assignments, 3)
	// Written files are sorted by name
	assert.Equal(t, "s1", assignments[0].Student)
	assert.Equal(t, "P_C", assignments[0].AssignedProject)
	assert.Equal(t, "P_C", assignments[1].AssignedProject)

	reportData, err := os.ReadFile(cfg.Paths.Report)
	require.NoError(t, err)
	assert.Contains(t, string(reportData), "s3")

	console := out.String()
	assert.Contains(t, console, "Student Project Assignments:")
	assert.Contains(t, console, "s1 (from A) is assigned to 'P_C' (Case Study: C2)")
	assert.Contains(t, console, "Project distribution:")
	assert.Contains(t, console, "'P_C': 2")
	assert.Contains(t, console, "Case Study distribution:")
	assert.Contains(t, console, "'C2': 2")
	assert.Contains(t, console, "Verifying assignments:")
	assert.Contains(t, console, "OK: s1 from A (Case study: C1) was assigned P_C (Case study: C2)")
	assert.Contains(t, console, "3 students, 3 assigned, 0 without a project, 0 violations")
}

func TestExecuteAssign_WideningIsReported(t *testing.T) {
	cfg := seeded(workspace(t, "a1,A\na2,A\na3,A\n", scenarioProjects), 5)
	out, _ := captureOutput(t)

	require.NoError(t, executeAssign(cfg, zap.NewNop()))

	console := out.String()
	assert.Contains(t, console, "Warning: not enough suitable projects for all students in A")
	assert.Contains(t, console, "Widened groups may hold ineligible assignments: A")
}

func TestExecuteAssign_EmptyProjects(t *testing.T) {
	cfg := seeded(workspace(t, "s1,A\ns2,B\n", ""), 1)
	out, _ := captureOutput(t)

	require.NoError(t, executeAssign(cfg, zap.NewNop()))

	console := out.String()
	assert.Contains(t, console, "Error: No suitable project found for s1 from A")
	assert.Contains(t, console, "Error: No suitable project found for s2 from B")
	assert.Contains(t, console, "2 students, 0 assigned, 2 without a project")

	assignments, err := report.LoadCSV(cfg.Paths.Assignments)
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestExecuteAssign_ParseErrorIsFatal(t *testing.T) {
	cfg := seeded(workspace(t, "s1,A\ns2\n", scenarioProjects), 1)
	_, errOut := captureOutput(t)

	err := executeAssign(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, "failed to parse students file", err.Error())
	assert.Contains(t, errOut.String(), "Line: 2")

	_, statErr := os.Stat(cfg.Paths.Assignments)
	assert.True(t, os.IsNotExist(statErr), "no output should be written after a parse failure")
}

func TestExecuteAssign_MissingInput(t *testing.T) {
	cfg := seeded(workspace(t, scenarioStudents, scenarioProjects), 1)
	cfg.Paths.Projects = filepath.Join(t.TempDir(), "missing.csv")
	captureOutput(t)

	err := executeAssign(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, "projects file not found", err.Error())
}

func TestExecuteAssign_UnwritableOutputIsReported(t *testing.T) {
	cfg := seeded(workspace(t, scenarioStudents, scenarioProjects), 1)
	cfg.Paths.Assignments = filepath.Join(t.TempDir(), "missing-dir", "a.csv")
	_, errOut := captureOutput(t)

	err := executeAssign(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, "failed to write assignments file", err.Error())
	assert.NotEmpty(t, errOut.String())
	assert.Contains(t, errOut.String(), cfg.Paths.Assignments)
	assert.Contains(t, errOut.String(), "Check that the directory exists")
}

func TestExecuteAssign_UnreadableInputIsReported(t *testing.T) {
	cfg := seeded(workspace(t, scenarioStudents, scenarioProjects), 1)
	cfg.Paths.Students = t.TempDir()
	_, errOut := captureOutput(t)

	err := executeAssign(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, "failed to read students file", err.Error())
	assert.Contains(t, errOut.String(), "File: "+cfg.Paths.Students)
}

func TestExecuteAssign_QuotedCommaIsFatal(t *testing.T) {
	cfg := seeded(workspace(t, "\"Smith, John\",A\n", scenarioProjects), 1)
	_, errOut := captureOutput(t)

	err := executeAssign(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, "failed to parse students file", err.Error())
	assert.Contains(t, errOut.String(), "expected 2 fields, got 3")
}

func TestExecuteAssign_SameSeedSameFile(t *testing.T) {
	captureOutput(t)

	first := seeded(workspace(t, scenarioStudents+"s4,A\ns5,C\n", scenarioProjects), 99)
	second := seeded(workspace(t, scenarioStudents+"s4,A\ns5,C\n", scenarioProjects), 99)

	require.NoError(t, executeAssign(first, zap.NewNop()))
	require.NoError(t, executeAssign(second, zap.NewNop()))

	a, err := os.ReadFile(first.Paths.Assignments)
	require.NoError(t, err)
	b, err := os.ReadFile(second.Paths.Assignments)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestExecuteAssign_TableFormat(t *testing.T) {
	cfg := seeded(workspace(t, scenarioStudents, scenarioProjects), 2)
	cfg.Output.Format = "table"
	out, _ := captureOutput(t)

	require.NoError(t, executeAssign(cfg, zap.NewNop()))

	upper := strings.ToUpper(out.String())
	assert.Contains(t, upper, "ASSIGNED PROJECT")
	assert.NotContains(t, out.String(), "is assigned to")
}

func TestWidenedGroups(t *testing.T) {
	cfg := seeded(workspace(t, "a1,A\na2,A\nb1,B\nb2,B\nc1,C\n", scenarioProjects), 4)
	out, _ := captureOutput(t)

	require.NoError(t, executeAssign(cfg, zap.NewNop()))

	// A and B each have one eligible project for two students
	line := ""
	for _, l := range strings.Split(out.String(), "\n") {
		if strings.Contains(l, "Widened groups") {
			line = l
		}
	}
	assert.Contains(t, line, "A")
	assert.Contains(t, line, "B")
	assert.NotContains(t, line, "C")
}
