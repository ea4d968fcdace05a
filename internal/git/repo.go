package git

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mrz1836/specify/internal/constants"
)

// CommitCount returns the number of commits reachable from HEAD in dir.
// Any failure, including a missing repository or git binary, is returned
// as an error; callers that treat history as optional fall back to 0.
func CommitCount(ctx context.Context, dir string) (int, error) {
	out, err := RunCommand(ctx, dir, "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, err
	}
	if out == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parse commit count %q: %w", out, ErrGitOperation)
	}
	return n, nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(ctx context.Context, dir string) bool {
	out, err := RunCommand(ctx, dir, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// InitRepo creates a repository in dir and commits everything in it.
func InitRepo(ctx context.Context, dir string) error {
	steps := [][]string{
		{"init"},
		{"add", "."},
		{"commit", "-m", constants.InitialCommitMessage},
	}
	for _, args := range steps {
		if _, err := RunCommand(ctx, dir, args...); err != nil {
			return err
		}
	}
	return nil
}
