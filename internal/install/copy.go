package install

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mrz1836/specify/internal/ctxutil"
)

// mergeTree copies src into dst file by file. Missing directories are
// created; existing files are overwritten. Nothing in dst is removed.
func mergeTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fsError(walkErr, "walk %s", path)
		}
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fsError(err, "relativize %s", path)
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return fsError(err, "stat %s", path)
			}
			if err := os.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				return fsError(err, "create directory %s", target)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

// replaceTree removes dst and copies src in its place.
func replaceTree(ctx context.Context, src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return fsError(err, "remove %s", dst)
	}
	return mergeTree(ctx, src, dst)
}

// copyFile copies a regular file, keeping its permission bits and
// modification time. An existing destination is truncated.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fsError(err, "stat %s", src)
	}
	in, err := os.Open(src) //#nosec G304 -- source is inside an extraction or template root
	if err != nil {
		return fsError(err, "open %s", src)
	}
	defer in.Close() //nolint:errcheck // read-only

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { //nolint:gosec // template directories are world-readable
		return fsError(err, "create directory for %s", dst)
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //#nosec G304 -- destination is inside the target
	if err != nil {
		return fsError(err, "create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fsError(err, "copy %s", src)
	}
	if err := out.Close(); err != nil {
		return fsError(err, "close %s", dst)
	}
	// O_CREATE does not change the mode of a file that already existed.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fsError(err, "chmod %s", dst)
	}
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
