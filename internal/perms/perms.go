// Package perms restores execute bits on template shell scripts.
//
// Archives built on some platforms lose mode bits. After install, every
// regular file under .specify/scripts that starts with a shebang and has no
// execute bit gets one execute bit per read bit, and always owner execute.
// The pass is a no-op on Windows.
package perms

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrz1836/specify/internal/constants"
)

// Failure is one script that could not be updated.
type Failure struct {
	Path string
	Err  error
}

// String renders the failure as "path: cause".
func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Result summarizes a normalization pass.
type Result struct {
	Updated  int
	Failures []Failure
}

// Detail renders the result the way the chmod step reports it.
func (r Result) Detail() string {
	detail := fmt.Sprintf("%d updated", r.Updated)
	if len(r.Failures) > 0 {
		detail += fmt.Sprintf(", %d failed", len(r.Failures))
	}
	return detail
}

// ScriptsDir returns the directory Normalize walks.
func ScriptsDir(projectPath string) string {
	return filepath.Join(projectPath, constants.SpecifyDir, constants.ScriptsDir)
}

// ExecutableMode mirrors each read bit of mode onto its execute bit and
// sets owner execute. File type bits are preserved.
func ExecutableMode(mode os.FileMode) os.FileMode {
	out := mode
	if mode&0o400 != 0 {
		out |= 0o100
	}
	if mode&0o040 != 0 {
		out |= 0o010
	}
	if mode&0o004 != 0 {
		out |= 0o001
	}
	return out | 0o100
}

func hasShebang(path string) (bool, error) {
	f, err := os.Open(path) //#nosec G304 -- path comes from walking the scripts directory
	if err != nil {
		return false, err
	}
	defer f.Close() //nolint:errcheck // read-only

	head := make([]byte, 2)
	n, err := io.ReadFull(f, head)
	if err != nil && n < 2 {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return string(head) == "#!", nil
}
