// Package state persists the classification verdict as a JSON sidecar under
// .specify/state in the project directory.
//
// The sidecar is advisory. Nothing reads it back to make decisions, so write
// failures are reported as degraded and callers carry on.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/specify/internal/clock"
	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/domain"
	specerrors "github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/flock"
)

const (
	dirPerm  = 0o750
	filePerm = 0o600
)

// Record is the persisted form of a verdict.
type Record struct {
	domain.Classification

	// PersistedAt is when the record was written (UTC).
	PersistedAt time.Time `json:"persisted_at"`
}

// FileStore reads and writes classification sidecars.
type FileStore struct {
	clock       clock.Clock
	lockTimeout time.Duration
}

// NewFileStore creates a store stamped with clk. A nil clock uses the system clock.
func NewFileStore(clk clock.Clock) *FileStore {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &FileStore{clock: clk, lockTimeout: flock.DefaultTimeout}
}

// Path returns the sidecar location for a project.
func Path(projectPath string) string {
	return filepath.Join(projectPath, constants.SpecifyDir, constants.StateDir, constants.ClassificationFileName)
}

// Save writes v to the project's sidecar, replacing any previous record.
// Every failure matches both ErrDegraded and ErrFilesystem.
func (s *FileStore) Save(ctx context.Context, projectPath string, v *domain.Classification) error {
	if v == nil {
		return specerrors.Degraded(fmt.Errorf("nil classification: %w", specerrors.ErrInvalidArgument), "persist classification")
	}
	target := Path(projectPath)

	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return degraded(err, "create state directory")
	}

	lockPath := target + ".lock"
	lock, err := flock.Acquire(ctx, lockPath, s.lockTimeout)
	if err != nil {
		return degraded(err, "lock state file")
	}
	// The lock file is removed while still held so it never lands in the
	// project's first commit.
	defer func() {
		_ = os.Remove(lockPath)
		_ = lock.Release()
	}()

	data, err := json.MarshalIndent(Record{Classification: *v, PersistedAt: s.clock.Now().UTC()}, "", "  ")
	if err != nil {
		return degraded(err, "encode classification")
	}
	if err := atomicWrite(target, append(data, '\n'), filePerm); err != nil {
		return degraded(err, "write classification")
	}
	return nil
}

// Load reads a project's sidecar. A missing sidecar returns ErrNotFound.
func (s *FileStore) Load(projectPath string) (*Record, error) {
	data, err := os.ReadFile(Path(projectPath)) //#nosec G304 -- path is constructed internally
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("classification sidecar: %w", specerrors.ErrNotFound)
		}
		return nil, specerrors.Wrap(specerrors.Tag(err, specerrors.ErrFilesystem), "read classification")
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, specerrors.Wrap(specerrors.Tag(err, specerrors.ErrFilesystem), "decode classification")
	}
	return &rec, nil
}

func degraded(err error, msg string) error {
	return specerrors.Degraded(specerrors.Tag(err, specerrors.ErrFilesystem), msg)
}

// atomicWrite writes data to a sibling temp file, syncs it, and renames it
// over path.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
