package install

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/ctxutil"
	specerrors "github.com/mrz1836/specify/internal/errors"
)

// extractZip writes every entry of r under dest. Entries whose names would
// resolve outside dest are rejected before anything is written for them.
func extractZip(ctx context.Context, r *zip.Reader, dest string) error {
	for _, f := range r.File {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}
		if err := extractEntry(f, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(f *zip.File, dest string) error {
	name := strings.TrimSuffix(f.Name, "/")
	if name == "" {
		return nil
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("archive entry %q escapes destination: %w", f.Name, specerrors.ErrFilesystem)
	}
	target := filepath.Join(dest, filepath.FromSlash(name))

	if f.FileInfo().IsDir() {
		if err := os.MkdirAll(target, 0o755); err != nil { //nolint:gosec // template directories are world-readable
			return fsError(err, "create directory %s", name)
		}
		return nil
	}

	if f.UncompressedSize64 > constants.MaxArchiveFileSize {
		return fmt.Errorf("archive entry %q exceeds %d bytes: %w", f.Name, constants.MaxArchiveFileSize, specerrors.ErrFilesystem)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil { //nolint:gosec // template directories are world-readable
		return fsError(err, "create directory for %s", name)
	}

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	rc, err := f.Open()
	if err != nil {
		return fsError(err, "open archive entry %s", name)
	}
	defer rc.Close() //nolint:errcheck // read-only entry

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //#nosec G304 -- target validated with filepath.IsLocal
	if err != nil {
		return fsError(err, "create %s", name)
	}
	if _, err := io.CopyN(out, rc, int64(f.UncompressedSize64)); err != nil && !errors.Is(err, io.EOF) { //nolint:gosec // size bounded above
		_ = out.Close()
		return fsError(err, "write %s", name)
	}
	if err := out.Close(); err != nil {
		return fsError(err, "close %s", name)
	}
	return nil
}

// singleRoot returns the path of the only top-level entry of dir when that
// entry is a directory.
func singleRoot(dir string) (string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", 0, fsError(err, "list %s", dir)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), 1, nil
	}
	return "", len(entries), nil
}

func fsError(err error, format string, args ...any) error {
	return specerrors.Wrapf(specerrors.Tag(err, specerrors.ErrFilesystem), format, args...)
}
