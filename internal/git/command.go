// Package git wraps the git commands specify shells out to.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	specerrors "github.com/mrz1836/specify/internal/errors"
)

// ErrGitOperation is re-exported from internal/errors for convenience.
var ErrGitOperation = specerrors.ErrGitOperation

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// RunCommand executes git with args in workDir and returns trimmed stdout.
// Failures wrap ErrGitOperation and include stderr. Cancellation returns the
// context error instead.
func RunCommand(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s failed: %s: %w", args[0], msg, ErrGitOperation)
		}
		return "", fmt.Errorf("git %s failed: %v: %w", args[0], err, ErrGitOperation)
	}

	return strings.TrimSpace(stdout.String()), nil
}
