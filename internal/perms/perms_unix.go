//go:build !windows

package perms

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Normalize walks the project's scripts directory and makes shebang scripts
// executable. Files whose first bytes cannot be read are skipped. A missing scripts directory is not an error. Per-file and
// per-subtree failures are collected in the result and never stop the walk.
func Normalize(projectPath string) Result {
	res := Result{Failures: []Failure{}}
	root := ScriptsDir(projectPath)
	if _, err := os.Lstat(root); errors.Is(err, fs.ErrNotExist) {
		return res
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Failures = append(res.Failures, Failure{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		updated, err := normalizeFile(path)
		if err != nil {
			res.Failures = append(res.Failures, Failure{Path: path, Err: err})
			return nil
		}
		if updated {
			res.Updated++
		}
		return nil
	})
	return res
}

func normalizeFile(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}
	// Unreadable files cannot be identified as scripts and are skipped.
	if ok, err := hasShebang(path); err != nil || !ok {
		return false, nil
	}
	mode := info.Mode().Perm()
	if mode&0o111 != 0 {
		return false, nil
	}
	if err := os.Chmod(path, ExecutableMode(mode)); err != nil {
		return false, err
	}
	return true, nil
}
