package flock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	specerrors "github.com/mrz1836/specify/internal/errors"
)

// DefaultTimeout bounds how long Acquire retries a held lock.
const DefaultTimeout = 5 * time.Second

const retryInterval = 50 * time.Millisecond

// Lock is a held exclusive lock on a lock file.
type Lock struct {
	f *os.File
}

// Acquire opens (creating if needed) the lock file at path and retries an
// exclusive lock until timeout. It returns ErrLockTimeout when the deadline
// passes and the context error when ctx is canceled first.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //#nosec G304 -- path is constructed internally
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		if err := Exclusive(f.Fd()); err == nil {
			return &Lock{f: f}, nil
		}
		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to acquire lock %s: %w", path, specerrors.ErrLockTimeout)
		}
		select {
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// Release unlocks and closes the lock file. The file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := Unlock(l.f.Fd())
	closeErr := l.f.Close()
	l.f = nil
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return closeErr
}
