package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/tui"
)

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Spec Kit template")
	for _, want := range []string{"--output", "--verbose", "--quiet", "--version", "init", "check", "classify", "config"} {
		assert.Contains(t, output, want)
	}
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		info           BuildInfo
		expectContains []string
	}{
		{
			name:           "full version info",
			info:           BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-01-01"},
			expectContains: []string{"1.0.0", "abc1234", "2026-01-01"},
		},
		{
			name:           "default dev version",
			info:           BuildInfo{},
			expectContains: []string{"dev", "none", "unknown"},
		},
		{
			name:           "partial version info",
			info:           BuildInfo{Version: "2.0.0-beta"},
			expectContains: []string{"2.0.0-beta", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRootCmd(&GlobalFlags{}, tc.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"--version"})

			require.NoError(t, cmd.Execute())
			for _, expected := range tc.expectContains {
				assert.Contains(t, buf.String(), expected)
			}
		})
	}
}

func TestRootCmd_OutputFlag(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expectedValue string
		expectError   bool
	}{
		{name: "text output", args: []string{"--output", "text"}, expectedValue: constants.OutputText},
		{name: "json output", args: []string{"--output", "json"}, expectedValue: constants.OutputJSON},
		{name: "shorthand output", args: []string{"-o", "json"}, expectedValue: constants.OutputJSON},
		{name: "invalid output format", args: []string{"--output", "xml"}, expectError: true},
		{name: "empty output format", args: []string{"--output", ""}, expectError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(constants.EnvSpecifyHome, t.TempDir())

			flags := &GlobalFlags{}
			cmd := newRootCmd(flags, BuildInfo{})
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tc.args)

			err := cmd.Execute()
			if tc.expectError {
				require.Error(t, err)
				assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedValue, flags.Output)
		})
	}
}

func TestRootCmd_NoArgsShowsBanner(t *testing.T) {
	t.Setenv(constants.EnvSpecifyHome, t.TempDir())

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), tui.Tagline)
	assert.Contains(t, buf.String(), "Available Commands")
}

func TestRootCmd_VerboseQuietMutuallyExclusive(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--verbose", "--quiet"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
	assert.Contains(t, err.Error(), "quiet")
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_TooManyInitArgs(t *testing.T) {
	t.Setenv(constants.EnvSpecifyHome, t.TempDir())

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"init", "a", "b"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestExecute_CanceledContext(t *testing.T) {
	t.Setenv(constants.EnvSpecifyHome, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "show"})

	err := cmd.ExecuteContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ExitInterrupted, ExitCodeForError(err))
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1.2.3 (commit: abc, built: today)", formatVersion(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"}))
	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
}
