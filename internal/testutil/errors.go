// Package testutil provides testing utilities for specify.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockNetwork simulates a transport failure.
	ErrMockNetwork = errors.New("network error")

	// ErrMockFilesystem simulates a filesystem failure.
	ErrMockFilesystem = errors.New("filesystem error")

	// ErrMockGit simulates a failed git invocation.
	ErrMockGit = errors.New("git command failed")
)
