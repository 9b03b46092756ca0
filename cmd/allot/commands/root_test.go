package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useRoot points the real root command at args and captures cobra's own
// output in a buffer. A nil args slice would make cobra read os.Args.
func useRoot(t *testing.T, args ...string) *bytes.Buffer {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	buf := new(bytes.Buffer)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		verifyProjects = ""
	})
	return buf
}

func runRoot(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := useRoot(t, args...)
	return buf, rootCmd.Execute()
}

// TestRootCommand_ShowsHelpWhenNoSubcommand tests that the root command
// shows help instead of silently succeeding when invoked without a subcommand
func TestRootCommand_ShowsHelpWhenNoSubcommand(t *testing.T) {
	buf, err := runRoot(t)

	// Should show help (which returns nil error in cobra)
	assert.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Usage:", "Help should be displayed")
	assert.Contains(t, output, "allot", "Help should show command name")
	assert.Contains(t, output, "assign", "Help should list subcommands")
}

// TestRootCommand_RejectsSubcommandFlags tests that flags meant for
// subcommands (like --seed) are rejected when passed to root command
func TestRootCommand_RejectsSubcommandFlags(t *testing.T) {
	_, err := runRoot(t, "--seed", "4")

	assert.Error(t, err, "Subcommand flag passed to root should cause error")
	assert.Contains(t, err.Error(), "unknown flag: --seed")
}

func TestExecute_PrintsUnreportedErrors(t *testing.T) {
	_, errOut := captureOutput(t)
	useRoot(t, "assign", "--no-such-flag")

	err := Execute()
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "unknown flag: --no-such-flag")
	assert.Contains(t, errOut.String(), "allot --help")
}

func TestExecute_DoesNotRepeatPrintedErrors(t *testing.T) {
	_, errOut := captureOutput(t)
	missing := filepath.Join(t.TempDir(), "missing.csv")
	useRoot(t, "verify", missing, "--projects", missing)

	err := Execute()
	require.Error(t, err)
	assert.Equal(t, "projects file not found", err.Error())
	assert.Equal(t, 1, strings.Count(errOut.String(), "projects file not found"))
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"assign", "verify", "init"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	configFlag := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "allot.yml", configFlag.DefValue)
	assert.Equal(t, "c", configFlag.Shorthand)

	require.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	assert.Equal(t, "1.2.3 (commit: abc123, built: 2026-01-01)", rootCmd.Version)
}
