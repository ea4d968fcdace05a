// Package errors provides centralized error handling for specify.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrInvalidArgument indicates a caller supplied an unknown or malformed
	// value, such as an unsupported project type override.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates a required resource was missing: no matching release
	// asset, or a local template path that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork indicates a transport failure, timeout, non-2xx status, or an
	// undecodable response body from the template host.
	ErrNetwork = errors.New("network request failed")

	// ErrFilesystem indicates a filesystem operation failed while installing
	// templates or writing state.
	ErrFilesystem = errors.New("filesystem operation failed")

	// ErrDegraded marks a non-fatal failure. Callers log it and continue.
	ErrDegraded = errors.New("operation degraded")

	// ErrGitOperation indicates that a git command failed.
	ErrGitOperation = errors.New("git operation failed")

	// ErrDirectoryExists indicates the target project directory already exists.
	ErrDirectoryExists = errors.New("directory already exists")

	// ErrConflictingFlags indicates mutually exclusive flags or arguments were combined.
	ErrConflictingFlags = errors.New("conflicting flags")

	// ErrUserCanceled indicates the user declined a confirmation prompt.
	ErrUserCanceled = errors.New("operation canceled by user")

	// ErrAgentToolMissing indicates the CLI for the selected assistant is not installed.
	ErrAgentToolMissing = errors.New("assistant tool not found")

	// ErrNonInteractiveMode indicates that an operation requiring confirmation
	// was attempted in non-interactive mode without the force flag.
	ErrNonInteractiveMode = errors.New("use --force in non-interactive mode")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrLockTimeout indicates a file lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrReported marks an error the command already showed to the user, as a
	// panel or as JSON. Execute does not print it again.
	ErrReported = errors.New("error already reported")

	// ErrCommandNotConfigured indicates that a mock command was not configured in tests.
	ErrCommandNotConfigured = errors.New("command not configured")
)

// Reported marks err as already shown to the user.
func Reported(err error) error {
	return Tag(err, ErrReported)
}

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	return errors.Is(err, ErrReported)
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
