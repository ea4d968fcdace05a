package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/specify/internal/config"
	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/logging"
)

// logFileWriter holds the log file writer so it can be closed on shutdown.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// zerologConfigOnce ensures zerolog global settings are configured exactly once.
var zerologConfigOnce sync.Once //nolint:gochecknoglobals // One-time configuration

// zerologGlobalMu protects concurrent writes to the zerolog global logger.
// This is separate from globalLoggerMu to avoid deadlocks.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// configureZerologGlobals sets the field names used in the rotating log.
func configureZerologGlobals() {
	zerologConfigOnce.Do(func() {
		zerolog.TimestampFieldName = "ts"
		zerolog.MessageFieldName = "event"
		zerolog.TimeFieldFormat = time.RFC3339Nano
	})
}

// loggerSetup holds the common components needed to create a logger.
type loggerSetup struct {
	level      zerolog.Level
	hook       zerolog.Hook
	fileWriter io.WriteCloser
	console    io.Writer
}

// prepareLoggerSetup creates the common logger components. A log file error
// is non-fatal; callers proceed with console-only logging.
func prepareLoggerSetup(verbose, quiet bool) (*loggerSetup, error) {
	configureZerologGlobals()

	setup := &loggerSetup{
		level:   selectLevel(verbose, quiet),
		hook:    logging.NewSensitiveDataHook(),
		console: selectOutput(verbose),
	}

	fileWriter, err := createLogFileWriter()
	if err == nil {
		setup.fileWriter = fileWriter
	}
	return setup, err
}

func buildLogger(setup *loggerSetup, writer io.Writer) zerolog.Logger {
	return zerolog.New(writer).Level(setup.level).Hook(setup.hook).With().Timestamp().Logger()
}

// InitLogger creates and configures a zerolog.Logger based on verbosity flags.
//
// Log levels are set as follows:
//   - verbose=true: Debug level (most detailed)
//   - quiet=true: Warn level (errors and warnings only)
//   - default: Info level (normal operation)
//
// The console only shows warnings and above unless verbose is set, so log
// lines do not interleave with the progress tree. Output is a console writer
// on a TTY and JSON on stderr otherwise.
//
// Everything at the selected level is also written to
// ~/.specify/logs/specify.log with rotation and secret redaction. If the log
// file cannot be created, the logger continues with console-only output.
func InitLogger(verbose, quiet bool) zerolog.Logger {
	setup, err := prepareLoggerSetup(verbose, quiet)

	var writer io.Writer
	if err != nil || setup.fileWriter == nil {
		writer = setup.console
	} else {
		logFileWriter = setup.fileWriter
		writer = zerolog.MultiLevelWriter(setup.console, setup.fileWriter)
	}

	logger := buildLogger(setup, writer)
	setGlobalLogger(logger)
	return logger
}

// setGlobalLogger points the zerolog/log package logger at cliLogger so code
// using log.Debug() and friends shares its configuration.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = cliLogger
}

// InitLoggerWithWriter creates and configures a zerolog.Logger with a custom writer.
// This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	configureZerologGlobals()

	level := selectLevel(verbose, quiet)
	hook := logging.NewSensitiveDataHook()
	logger := zerolog.New(w).Level(level).Hook(hook).With().Timestamp().Logger()

	setGlobalLogger(logger)

	return logger
}

// CloseLogFile closes the global log file writer if it was opened.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel determines the appropriate log level based on flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// consoleLevelWriter drops entries below min before they reach the console.
type consoleLevelWriter struct {
	io.Writer

	min zerolog.Level
}

// WriteLevel implements zerolog.LevelWriter.
func (w consoleLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < w.min {
		return len(p), nil
	}
	return w.Write(p)
}

// selectOutput picks the console writer: pretty on a TTY without NO_COLOR,
// JSON on stderr otherwise. Info lines only reach the file.
func selectOutput(verbose bool) zerolog.LevelWriter {
	minLevel := zerolog.WarnLevel
	if verbose {
		minLevel = zerolog.DebugLevel
	}

	var out io.Writer = os.Stderr
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return consoleLevelWriter{Writer: out, min: minLevel}
}

// filteringWriteCloser wraps a WriteCloser with sensitive data filtering.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

// Write implements io.Writer by delegating to the filtering writer.
func (fwc *filteringWriteCloser) Write(p []byte) (n int, err error) {
	return fwc.filter.Write(p)
}

// Close implements io.Closer by delegating to the underlying closer.
func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter creates a rotating file writer for the CLI log,
// wrapped so tokens are never written to disk.
func createLogFileWriter() (io.WriteCloser, error) {
	logPath, err := config.LogFilePath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}
