package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/specify/internal/constants"
)

// CopyTemplates copies a local template checkout into projectPath: the
// .specify directory and the assistant's own folder. Each destination that
// already exists is replaced wholesale. Source folders that are missing are
// skipped.
func CopyTemplates(ctx context.Context, localRoot, projectPath, assistant string, rep Reporter) error {
	if rep == nil {
		rep = NopReporter{}
	}
	rep.Add(StepLocalCopy, "Copy local templates")
	rep.Start(StepLocalCopy, "using local templates from "+localRoot)

	dirs := []string{constants.SpecifyDir}
	if info, ok := constants.LookupAssistant(assistant); ok {
		dirs = append(dirs, info.Folder)
	}

	if err := os.MkdirAll(projectPath, 0o755); err != nil { //nolint:gosec // project directories are world-readable
		err = fsError(err, "create project directory %s", projectPath)
		rep.Error(StepLocalCopy, err.Error())
		return err
	}

	copied := 0
	for _, name := range dirs {
		src := filepath.Join(localRoot, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := replaceTree(ctx, src, filepath.Join(projectPath, name)); err != nil {
			err = fmt.Errorf("copy local template %s: %w", name, err)
			rep.Error(StepLocalCopy, err.Error())
			return err
		}
		copied++
	}

	rep.Complete(StepLocalCopy, fmt.Sprintf("copied %d template directories to %s", copied, projectPath))
	return nil
}
