package source

import (
	"fmt"
	"os"
	"path/filepath"

	specerrors "github.com/mrz1836/specify/internal/errors"
)

// Local is a template checkout on disk, used instead of a release download.
type Local struct {
	Path string
}

// Resolve returns the absolute template root. A missing path is ErrNotFound.
func (l Local) Resolve() (string, error) {
	abs, err := filepath.Abs(l.Path)
	if err != nil {
		return "", fmt.Errorf("resolve local templates %s: %w", l.Path, specerrors.ErrInvalidArgument)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("local templates directory %s: %w", abs, specerrors.ErrNotFound)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("local templates path %s is not a directory: %w", abs, specerrors.ErrNotFound)
	}
	return abs, nil
}
