package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree creates files under root. Keys are slash-separated relative
// paths; a key ending in "/" creates an empty directory.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(path, 0o750))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

// ReadFile returns the content of root/rel.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel))) //#nosec G304 -- test fixture path
	require.NoError(t, err)
	return string(data)
}

// WriteZip writes a zip archive to path with the given entries. Keys ending
// in "/" become directory entries. Entries are written in sorted order.
func WriteZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path) //#nosec G304 -- test fixture path
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	w := zip.NewWriter(f)
	for _, name := range names {
		hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
		if strings.HasSuffix(name, "/") {
			hdr.SetMode(os.ModeDir | 0o755)
		} else {
			hdr.SetMode(0o644)
		}
		fw, err := w.CreateHeader(hdr)
		require.NoError(t, err)
		if !strings.HasSuffix(name, "/") {
			_, err = fw.Write([]byte(entries[name]))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}
