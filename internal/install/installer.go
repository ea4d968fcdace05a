package install

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/ctxutil"
	"github.com/mrz1836/specify/internal/domain"
	specerrors "github.com/mrz1836/specify/internal/errors"
)

// Installer extracts template archives.
type Installer struct {
	scratchDir string
}

// Option configures an Installer.
type Option func(*Installer)

// WithScratchDir sets where merge extractions are staged. Defaults to the
// system temp directory.
func WithScratchDir(dir string) Option {
	return func(i *Installer) {
		i.scratchDir = dir
	}
}

// New creates an Installer.
func New(opts ...Option) *Installer {
	i := &Installer{}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install extracts archivePath into target and then removes the archive.
//
// On a fresh target any extraction failure removes the target directory.
// On a current-directory target failures leave whatever was merged so far.
// Removing the archive is its own step: a cleanup failure is reported on
// that step and logged, and never replaces the extraction result.
func (i *Installer) Install(ctx context.Context, archivePath string, target domain.InstallTarget, rep Reporter) (err error) {
	if rep == nil {
		rep = NopReporter{}
	}
	defer i.cleanup(ctx, archivePath, rep)

	rep.Add(StepExtract, "Extract template")
	rep.Start(StepExtract, "")

	if target.IsCurrentDir {
		err = i.merge(ctx, archivePath, target.Path, rep)
	} else {
		err = i.fresh(ctx, archivePath, target.Path, rep)
	}
	if err != nil {
		rep.Error(StepExtract, err.Error())
		return err
	}
	rep.Complete(StepExtract, "")
	return nil
}

func (i *Installer) fresh(ctx context.Context, archivePath, target string, rep Reporter) (err error) {
	if err := os.MkdirAll(target, 0o755); err != nil { //nolint:gosec // project directories are world-readable
		return fsError(err, "create project directory %s", target)
	}
	tempSibling := ""
	defer func() {
		if err == nil {
			return
		}
		_ = os.RemoveAll(target)
		if tempSibling != "" {
			_ = os.RemoveAll(tempSibling)
		}
	}()

	if err := i.extractArchive(ctx, archivePath, target, rep); err != nil {
		return err
	}

	nested, count, err := singleRoot(target)
	if err != nil {
		return err
	}
	rep.Start(StepSummary, "")
	rep.Complete(StepSummary, fmt.Sprintf("%d top-level items", count))

	if nested == "" {
		return nil
	}

	// Not atomic: an interrupt between these renames leaves the target in an
	// intermediate state.
	tempSibling = fmt.Sprintf("%s_temp-%s", target, uuid.NewString()[:8])
	if err := os.Rename(nested, tempSibling); err != nil {
		return fsError(err, "move %s aside", nested)
	}
	if err := os.Remove(target); err != nil {
		return fsError(err, "remove emptied %s", target)
	}
	if err := os.Rename(tempSibling, target); err != nil {
		return fsError(err, "move %s into place", tempSibling)
	}
	rep.Add(StepFlatten, "Flatten nested directory")
	rep.Complete(StepFlatten, "")
	return nil
}

func (i *Installer) merge(ctx context.Context, archivePath, target string, rep Reporter) error {
	scratch, err := os.MkdirTemp(i.scratchDir, constants.AppName+"-extract-*")
	if err != nil {
		return fsError(err, "create scratch directory")
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	if err := i.extractArchive(ctx, archivePath, scratch, rep); err != nil {
		return err
	}

	source := scratch
	nested, count, err := singleRoot(scratch)
	if err != nil {
		return err
	}
	rep.Start(StepSummary, "")
	rep.Complete(StepSummary, fmt.Sprintf("temp %d items", count))
	if nested != "" {
		source = nested
		rep.Add(StepFlatten, "Flatten nested directory")
		rep.Complete(StepFlatten, "")
	}

	entries, err := os.ReadDir(source)
	if err != nil {
		return fsError(err, "list %s", source)
	}
	for _, entry := range entries {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}
		src := filepath.Join(source, entry.Name())
		dst := filepath.Join(target, entry.Name())
		if entry.IsDir() {
			err = mergeTree(ctx, src, dst)
		} else {
			err = copyFile(src, dst)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (i *Installer) extractArchive(ctx context.Context, archivePath, dest string, rep Reporter) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fsError(err, "open archive %s", filepath.Base(archivePath))
	}
	defer zr.Close() //nolint:errcheck // read-only archive

	rep.Start(StepZipList, "")
	rep.Complete(StepZipList, fmt.Sprintf("%d entries", len(zr.File)))

	return extractZip(ctx, &zr.Reader, dest)
}

func (i *Installer) cleanup(ctx context.Context, archivePath string, rep Reporter) {
	rep.Add(StepCleanup, "Remove temporary archive")
	rep.Start(StepCleanup, "")
	err := os.Remove(archivePath)
	switch {
	case err == nil:
		rep.Complete(StepCleanup, "")
	case errors.Is(err, os.ErrNotExist):
		rep.Skip(StepCleanup, "archive already removed")
	default:
		rep.Error(StepCleanup, err.Error())
		zerolog.Ctx(ctx).Warn().
			Err(specerrors.Degraded(err, "remove archive")).
			Str("archive", archivePath).
			Msg("temporary archive left behind")
	}
}
