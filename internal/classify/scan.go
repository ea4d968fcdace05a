package classify

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/ctxutil"
)

// scanResult aggregates what the walk saw. Each subtree contributes to it
// independently; a subtree that cannot be listed is recorded in skipped.
type scanResult struct {
	fileCount   int
	configHits  []string
	samplePaths []string
	skipped     []string
}

type scanner struct {
	root     string
	maxFiles int
	res      scanResult
}

// scan walks root top-down. A directory's files are counted before its
// subdirectories are entered, and entries are visited in lexical order.
// Counting stops at maxFiles, so the reported count saturates at the cap.
func scan(ctx context.Context, root string, maxFiles int) (scanResult, error) {
	s := &scanner{
		root:     root,
		maxFiles: maxFiles,
		res: scanResult{
			configHits:  []string{},
			samplePaths: []string{},
			skipped:     []string{},
		},
	}
	if _, err := s.walk(ctx, root); err != nil {
		return s.res, err
	}
	return s.res, nil
}

// walk returns true once the file cap is reached.
func (s *scanner) walk(ctx context.Context, dir string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return true, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.res.skipped = append(s.res.skipped, s.rel(dir))
		return false, nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if isDir(entry, path) {
			if entry.IsDir() {
				if _, excluded := constants.ExcludedScanDirs[entry.Name()]; !excluded {
					subdirs = append(subdirs, path)
				}
			}
			// Symlinks to directories are neither counted nor followed.
			continue
		}
		if s.record(entry.Name(), path) {
			return true, nil
		}
	}

	for _, sub := range subdirs {
		stop, err := s.walk(ctx, sub)
		if stop || err != nil {
			return stop, err
		}
	}
	return false, nil
}

// record counts one file and reports whether the cap has been reached.
func (s *scanner) record(name, path string) bool {
	s.res.fileCount++
	rel := s.rel(path)
	if len(s.res.samplePaths) < constants.MaxSamplePaths {
		s.res.samplePaths = append(s.res.samplePaths, rel)
	}
	if _, ok := constants.ConfigFileMarkers[name]; ok && len(s.res.configHits) < constants.MaxConfigHits {
		s.res.configHits = append(s.res.configHits, rel)
	}
	return s.res.fileCount >= s.maxFiles
}

func (s *scanner) rel(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func isDir(entry os.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
