package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specify/internal/constants"
)

func TestInitLogger_LogLevelPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		verbose       bool
		quiet         bool
		expectedLevel zerolog.Level
	}{
		{name: "default is info level", expectedLevel: zerolog.InfoLevel},
		{name: "verbose enables debug level", verbose: true, expectedLevel: zerolog.DebugLevel},
		{name: "quiet enables warn level", quiet: true, expectedLevel: zerolog.WarnLevel},
		{name: "verbose takes precedence over quiet", verbose: true, quiet: true, expectedLevel: zerolog.DebugLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := InitLoggerWithWriter(tc.verbose, tc.quiet, &buf)
			assert.Equal(t, tc.expectedLevel, logger.GetLevel())
			assert.Equal(t, tc.expectedLevel, selectLevel(tc.verbose, tc.quiet))
		})
	}
}

func TestInitLoggerWithWriter_FlagsSensitiveMessages(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, false, &buf)

	logger.Info().Msg("using token " + "ghp_" + "xxxxxxxxxxTESTONLYxxxxxxxxxx")

	assert.Contains(t, buf.String(), `"contains_filtered_data":true`)
}

func TestConsoleLevelWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		min     zerolog.Level
		level   zerolog.Level
		written bool
	}{
		{name: "info hidden below warn", min: zerolog.WarnLevel, level: zerolog.InfoLevel},
		{name: "warn shown", min: zerolog.WarnLevel, level: zerolog.WarnLevel, written: true},
		{name: "error shown", min: zerolog.WarnLevel, level: zerolog.ErrorLevel, written: true},
		{name: "debug shown when verbose", min: zerolog.DebugLevel, level: zerolog.DebugLevel, written: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			w := consoleLevelWriter{Writer: &buf, min: tc.min}
			n, err := w.WriteLevel(tc.level, []byte("line\n"))
			require.NoError(t, err)
			assert.Equal(t, 5, n)
			assert.Equal(t, tc.written, buf.Len() > 0)
		})
	}
}

func TestSelectOutput_NonTTY(t *testing.T) {
	// Tests run without a terminal on stderr, so the console gets raw JSON.
	t.Setenv("NO_COLOR", "1")

	out, ok := selectOutput(false).(consoleLevelWriter)
	require.True(t, ok)
	assert.Equal(t, os.Stderr, out.Writer)
	assert.Equal(t, zerolog.WarnLevel, out.min)

	out, ok = selectOutput(true).(consoleLevelWriter)
	require.True(t, ok)
	assert.Equal(t, zerolog.DebugLevel, out.min)
}

func TestCreateLogFileWriter_CreatesLogFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(constants.EnvSpecifyHome, tmpDir)

	writer, err := createLogFileWriter()
	require.NoError(t, err)

	_, err = writer.Write([]byte(`{"level":"info","event":"test"}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	info, err := os.Stat(filepath.Join(tmpDir, constants.LogsDir, constants.CLILogFileName))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestInitLogger_WritesRedactedFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(constants.EnvSpecifyHome, tmpDir)
	logFileWriter = nil

	logger := InitLogger(false, false)
	logger.Info().Str("run_id", "r-1").Str("auth", "Bearer "+"supersecretTESTONLYvalue123").Msg("download started")
	CloseLogFile()

	data, err := os.ReadFile(filepath.Join(tmpDir, constants.LogsDir, constants.CLILogFileName)) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"download started"`)
	assert.Contains(t, string(data), `"run_id":"r-1"`)
	assert.Contains(t, string(data), `"ts":`)
	assert.NotContains(t, string(data), "supersecretTESTONLYvalue123")
}

func TestCloseLogFile_NoOpWhenNil(_ *testing.T) {
	logFileWriter = nil
	CloseLogFile()
	CloseLogFile()
}
