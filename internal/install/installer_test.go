package install

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/domain"
	specerrors "github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/testutil"
	"github.com/mrz1836/specify/internal/tracker"
)

func writeArchive(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.zip")
	testutil.WriteZip(t, path, entries)
	return path
}

func stepOf(t *testing.T, tr *tracker.Tracker, key string) tracker.Step {
	t.Helper()
	s, ok := tr.Step(key)
	require.True(t, ok, "step %s missing", key)
	return s
}

func TestInstall_FreshSingleRootIsFlattened(t *testing.T) {
	t.Parallel()
	parent := t.TempDir()
	target := filepath.Join(parent, "demo")
	archive := writeArchive(t, map[string]string{
		"root/":          "",
		"root/a.txt":     "A",
		"root/sub/":      "",
		"root/sub/b.txt": "B",
	})
	tr := tracker.New("test")

	err := New().Install(context.Background(), archive, domain.InstallTarget{Path: target}, tr)
	require.NoError(t, err)

	assert.Equal(t, "A", testutil.ReadFile(t, target, "a.txt"))
	assert.Equal(t, "B", testutil.ReadFile(t, target, "sub/b.txt"))
	assert.NoDirExists(t, filepath.Join(target, "root"))
	assert.NoFileExists(t, archive)

	siblings, err := os.ReadDir(parent)
	require.NoError(t, err)
	require.Len(t, siblings, 1, "no temp sibling left behind")

	assert.Equal(t, constants.StepDone, stepOf(t, tr, StepExtract).Status)
	assert.Equal(t, "4 entries", stepOf(t, tr, StepZipList).Detail)
	assert.Equal(t, "1 top-level items", stepOf(t, tr, StepSummary).Detail)
	assert.Equal(t, constants.StepDone, stepOf(t, tr, StepFlatten).Status)
	assert.Equal(t, constants.StepDone, stepOf(t, tr, StepCleanup).Status)
}

func TestInstall_FreshMultiRootExtractsDirectly(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "demo")
	archive := writeArchive(t, map[string]string{
		"a.txt":   "A",
		"b/c.txt": "C",
	})
	tr := tracker.New("test")

	require.NoError(t, New().Install(context.Background(), archive, domain.InstallTarget{Path: target}, tr))
	assert.Equal(t, "A", testutil.ReadFile(t, target, "a.txt"))
	assert.Equal(t, "C", testutil.ReadFile(t, target, "b/c.txt"))
	_, flattened := tr.Step(StepFlatten)
	assert.False(t, flattened)
	assert.Equal(t, "2 top-level items", stepOf(t, tr, StepSummary).Detail)
}

func TestInstall_FreshSingleRootFileIsNotFlattened(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "demo")
	archive := writeArchive(t, map[string]string{"only.txt": "x"})

	require.NoError(t, New().Install(context.Background(), archive, domain.InstallTarget{Path: target}, nil))
	assert.FileExists(t, filepath.Join(target, "only.txt"))
}

func TestInstall_MergeOverwritesAndKeeps(t *testing.T) {
	t.Parallel()
	target := t.TempDir()
	testutil.WriteTree(t, target, map[string]string{
		"config.json":                     `{"old":true}`,
		"keep.txt":                        "mine",
		".specify/memory/constitution.md": "custom",
	})
	archive := writeArchive(t, map[string]string{
		"root/config.json":           `{"new":true}`,
		"root/.specify/scripts/a.sh": "#!/bin/sh\n",
	})
	scratch := t.TempDir()
	tr := tracker.New("test")

	err := New(WithScratchDir(scratch)).Install(context.Background(), archive, domain.InstallTarget{Path: target, IsCurrentDir: true}, tr)
	require.NoError(t, err)

	assert.JSONEq(t, `{"new":true}`, testutil.ReadFile(t, target, "config.json"))
	assert.Equal(t, "mine", testutil.ReadFile(t, target, "keep.txt"))
	assert.Equal(t, "custom", testutil.ReadFile(t, target, ".specify/memory/constitution.md"))
	assert.Equal(t, "#!/bin/sh\n", testutil.ReadFile(t, target, ".specify/scripts/a.sh"))
	assert.NoDirExists(t, filepath.Join(target, "root"))
	assert.NoFileExists(t, archive)

	left, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, left, "scratch extraction is removed")
	assert.Equal(t, "temp 1 items", stepOf(t, tr, StepSummary).Detail)
	assert.Equal(t, constants.StepDone, stepOf(t, tr, StepFlatten).Status)
}

func TestInstall_MergeFailureKeepsPartialResult(t *testing.T) {
	t.Parallel()
	target := t.TempDir()
	// A file where the archive expects a directory.
	testutil.WriteTree(t, target, map[string]string{"dir": "not a directory"})
	archive := writeArchive(t, map[string]string{
		"a.txt":     "A",
		"dir/x.txt": "X",
	})
	tr := tracker.New("test")

	err := New(WithScratchDir(t.TempDir())).Install(context.Background(), archive, domain.InstallTarget{Path: target, IsCurrentDir: true}, tr)
	require.ErrorIs(t, err, specerrors.ErrFilesystem)

	assert.Equal(t, "A", testutil.ReadFile(t, target, "a.txt"), "merged entries stay")
	assert.Equal(t, "not a directory", testutil.ReadFile(t, target, "dir"))
	assert.Equal(t, constants.StepError, stepOf(t, tr, StepExtract).Status)
	assert.Equal(t, constants.StepDone, stepOf(t, tr, StepCleanup).Status)
	assert.NoFileExists(t, archive)
}

func TestInstall_FreshCorruptArchiveRemovesTarget(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "demo")
	archive := filepath.Join(t.TempDir(), "broken.zip")
	require.NoError(t, os.WriteFile(archive, []byte("definitely not a zip"), 0o600))
	tr := tracker.New("test")

	err := New().Install(context.Background(), archive, domain.InstallTarget{Path: target}, tr)
	require.ErrorIs(t, err, specerrors.ErrFilesystem)

	assert.NoDirExists(t, target)
	assert.NoFileExists(t, archive)
	assert.Equal(t, constants.StepError, stepOf(t, tr, StepExtract).Status)
	assert.NotEmpty(t, stepOf(t, tr, StepExtract).Detail)
	assert.Equal(t, constants.StepDone, stepOf(t, tr, StepCleanup).Status)
}

func TestInstall_RejectsPathTraversal(t *testing.T) {
	t.Parallel()
	parent := t.TempDir()
	target := filepath.Join(parent, "demo")
	archive := writeArchive(t, map[string]string{
		"ok.txt":      "fine",
		"../evil.txt": "nope",
	})

	err := New().Install(context.Background(), archive, domain.InstallTarget{Path: target}, nil)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(parent, "evil.txt"))
	assert.NoDirExists(t, target)
}

func TestInstall_MissingArchiveSkipsCleanup(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "demo")
	tr := tracker.New("test")

	err := New().Install(context.Background(), filepath.Join(t.TempDir(), "gone.zip"), domain.InstallTarget{Path: target}, tr)
	require.ErrorIs(t, err, specerrors.ErrFilesystem)
	assert.Equal(t, constants.StepSkipped, stepOf(t, tr, StepCleanup).Status)
	assert.NoDirExists(t, target)
}

func TestInstall_CanceledRemovesFreshTarget(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "demo")
	archive := writeArchive(t, map[string]string{"a.txt": "A"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Install(ctx, archive, domain.InstallTarget{Path: target}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, target)
	assert.NoFileExists(t, archive)
}

func TestCopyTemplates(t *testing.T) {
	t.Parallel()
	local := t.TempDir()
	testutil.WriteTree(t, local, map[string]string{
		".specify/templates/spec.md": "spec",
		".claude/commands/plan.md":   "plan",
		".gemini/commands/plan.toml": "other",
	})
	project := t.TempDir()
	testutil.WriteTree(t, project, map[string]string{
		".specify/stale.md": "old",
		".claude/mine.md":   "mine",
		"README.md":         "readme",
	})
	tr := tracker.New("test")

	require.NoError(t, CopyTemplates(context.Background(), local, project, "claude", tr))

	assert.Equal(t, "spec", testutil.ReadFile(t, project, ".specify/templates/spec.md"))
	assert.NoFileExists(t, filepath.Join(project, ".specify/stale.md"), "existing destination replaced")
	assert.Equal(t, "plan", testutil.ReadFile(t, project, ".claude/commands/plan.md"))
	assert.NoFileExists(t, filepath.Join(project, ".claude/mine.md"))
	assert.NoDirExists(t, filepath.Join(project, ".gemini"))
	assert.Equal(t, "readme", testutil.ReadFile(t, project, "README.md"))
	assert.Equal(t, constants.StepDone, stepOf(t, tr, StepLocalCopy).Status)
}

func TestCopyTemplates_MissingAssistantFolderIsSkipped(t *testing.T) {
	t.Parallel()
	local := t.TempDir()
	testutil.WriteTree(t, local, map[string]string{".specify/a.md": "a"})
	project := filepath.Join(t.TempDir(), "new")

	require.NoError(t, CopyTemplates(context.Background(), local, project, "auggie", nil))
	assert.FileExists(t, filepath.Join(project, ".specify/a.md"))
	assert.NoDirExists(t, filepath.Join(project, ".augment"))
}
