package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specify/internal/classify"
	"github.com/mrz1836/specify/internal/clock"
	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/domain"
	specerrors "github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/install"
	"github.com/mrz1836/specify/internal/source"
	"github.com/mrz1836/specify/internal/state"
	"github.com/mrz1836/specify/internal/testutil"
	"github.com/mrz1836/specify/internal/tracker"
)

const assetName = "spec-kit-template-claude-sh-v1.2.3.zip"

type fakeGit struct {
	available bool
	repo      bool
	initErr   error
	inits     int
}

func (g *fakeGit) Available() bool                        { return g.available }
func (g *fakeGit) IsRepo(context.Context, string) bool    { return g.repo }
func (g *fakeGit) InitRepo(context.Context, string) error { g.inits++; return g.initErr }

type failingStore struct{}

func (failingStore) Save(context.Context, string, *domain.Classification) error {
	return specerrors.Degraded(errors.New("disk full"), "write classification")
}

// releaseServer serves a latest-release listing with one matching asset
// whose body is archive.
func releaseServer(t *testing.T, archive []byte, downloadStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/repos/mbpfws/spec-kit/releases/latest", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(source.Release{
			TagName: "v1.2.3",
			Assets: []source.Asset{
				{Name: "spec-kit-template-gemini-sh-v1.2.3.zip", BrowserDownloadURL: srv.URL + "/dl/other.zip", Size: 10},
				{Name: assetName, BrowserDownloadURL: srv.URL + "/dl/" + assetName, Size: int64(len(archive))},
			},
		})
	})
	mux.HandleFunc("/dl/", func(w http.ResponseWriter, _ *http.Request) {
		if downloadStatus != http.StatusOK {
			w.WriteHeader(downloadStatus)
			return
		}
		_, _ = w.Write(archive)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func templateZip(t *testing.T) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.zip")
	testutil.WriteZip(t, path, map[string]string{
		"root/":                          "",
		"root/.specify/":                 "",
		"root/.specify/scripts/":         "",
		"root/.specify/scripts/bash/":    "",
		"root/.specify/scripts/bash/run": "#!/bin/sh\necho hi\n",
		"root/.claude/":                  "",
		"root/.claude/commands.md":       "# commands",
	})
	data, err := os.ReadFile(path) //#nosec G304 -- test fixture path
	require.NoError(t, err)
	return data
}

func newPipeline(t *testing.T, srv *httptest.Server, g GitOps) *Pipeline {
	t.Helper()
	clk := clock.Fixed(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	return New(Services{
		Releases:   source.NewReleaseClient(srv.Client(), srv.URL, "", time.Second),
		Downloader: source.NewDownloader(srv.Client(), "", time.Second),
		Installer:  install.New(install.WithScratchDir(t.TempDir())),
		Store:      state.NewFileStore(clk),
		Classifier: classify.New(classify.WithClock(clk), classify.WithCommitCounter(func(context.Context, string) (int, error) {
			return 0, nil
		})),
		Git: g,
	}, WithScratchDir(t.TempDir()))
}

func stepOf(t *testing.T, tr *tracker.Tracker, key string) tracker.Step {
	t.Helper()
	s, ok := tr.Step(key)
	require.True(t, ok, "step %s missing", key)
	return s
}

func TestRun_RemoteFreshTarget(t *testing.T) {
	t.Parallel()
	zipData := templateZip(t)
	srv := releaseServer(t, zipData, http.StatusOK)
	g := &fakeGit{available: true}
	target := filepath.Join(t.TempDir(), "demo")
	tr := tracker.New(Title)

	res, err := newPipeline(t, srv, g).Run(context.Background(), Request{
		Target:    domain.InstallTarget{Path: target},
		Assistant: "claude",
		Script:    constants.ScriptPOSIX,
	}, tr)
	require.NoError(t, err)

	assert.Equal(t, "# commands", testutil.ReadFile(t, target, ".claude/commands.md"))
	assert.NoDirExists(t, filepath.Join(target, "root"))
	assert.Equal(t, assetName, res.Asset.Filename)
	assert.Equal(t, constants.ProjectTypeGreenfield, res.Classification.ProjectType)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, g.inits)

	rec, err := state.NewFileStore(nil).Load(target)
	require.NoError(t, err)
	assert.Equal(t, constants.ProjectTypeGreenfield, rec.ProjectType)

	if runtime.GOOS != "windows" {
		assert.Equal(t, 1, res.Permissions.Updated)
		info, err := os.Stat(filepath.Join(target, ".specify", "scripts", "bash", "run"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	}

	assert.Equal(t, "greenfield (98/100)", stepOf(t, tr, StepClassification).Detail)
	assert.Regexp(t, `^release v1\.2\.3 \([\d,]+ bytes\)$`, stepOf(t, tr, StepFetch).Detail)
	assert.Equal(t, assetName, stepOf(t, tr, StepDownload).Detail)
	assert.Equal(t, constants.StepDone, stepOf(t, tr, install.StepFlatten).Status)
	assert.Equal(t, ".specify/state/project-classification.json", stepOf(t, tr, StepPersist).Detail)
	assert.Equal(t, "initialized", stepOf(t, tr, StepGit).Detail)
	assert.Equal(t, "Cleanup", stepOf(t, tr, install.StepCleanup).Label)
	assert.Equal(t, constants.StepDone, stepOf(t, tr, install.StepCleanup).Status)
	assert.Equal(t, "project ready", stepOf(t, tr, StepFinal).Detail)

	for _, s := range tr.Steps() {
		assert.True(t, s.Status.IsTerminal(), "step %s left %s", s.Key, s.Status)
	}
}

func TestRun_DownloadFailureRemovesFreshTarget(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, templateZip(t), http.StatusBadGateway)
	target := filepath.Join(t.TempDir(), "demo")
	tr := tracker.New(Title)

	_, err := newPipeline(t, srv, &fakeGit{}).Run(context.Background(), Request{
		Target:    domain.InstallTarget{Path: target},
		Assistant: "claude",
		Script:    constants.ScriptPOSIX,
	}, tr)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepDownload, stepErr.Step)
	var ne *specerrors.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, http.StatusBadGateway, ne.StatusCode)

	assert.NoDirExists(t, target)
	assert.Equal(t, constants.StepError, stepOf(t, tr, StepDownload).Status)
	assert.Equal(t, constants.StepError, stepOf(t, tr, StepFinal).Status)
	assert.Equal(t, constants.StepDone, stepOf(t, tr, StepFetch).Status, "completed steps stay done")
}

func TestRun_NoMatchingAsset(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, templateZip(t), http.StatusOK)
	tr := tracker.New(Title)

	_, err := newPipeline(t, srv, &fakeGit{}).Run(context.Background(), Request{
		Target:    domain.InstallTarget{Path: filepath.Join(t.TempDir(), "demo")},
		Assistant: "roo",
		Script:    constants.ScriptPowerShell,
	}, tr)
	require.ErrorIs(t, err, specerrors.ErrNotFound)
	assert.Equal(t, constants.StepError, stepOf(t, tr, StepFetch).Status)
	assert.Equal(t, constants.StepPending, stepOf(t, tr, StepDownload).Status)
}

func TestRun_MergeIntoCurrentDirectory(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, templateZip(t), http.StatusOK)
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"go.mod":              "module demo",
		"main.go":             "package main",
		".claude/commands.md": "old",
	})
	g := &fakeGit{available: true, repo: true}
	tr := tracker.New(Title)

	res, err := newPipeline(t, srv, g).Run(context.Background(), Request{
		Target:    domain.InstallTarget{Path: dir, IsCurrentDir: true},
		Assistant: "claude",
		Script:    constants.ScriptPOSIX,
	}, tr)
	require.NoError(t, err)

	assert.Equal(t, "# commands", testutil.ReadFile(t, dir, ".claude/commands.md"))
	assert.Equal(t, "package main", testutil.ReadFile(t, dir, "main.go"))
	assert.Equal(t, constants.ProjectTypeOngoing, res.Classification.ProjectType)
	assert.Equal(t, "existing repo detected", stepOf(t, tr, StepGit).Detail)
	assert.Zero(t, g.inits)
}

func TestRun_FreshTargetMustNotExist(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, templateZip(t), http.StatusOK)
	target := t.TempDir()

	_, err := newPipeline(t, srv, &fakeGit{}).Run(context.Background(), Request{
		Target:    domain.InstallTarget{Path: target},
		Assistant: "claude",
		Script:    constants.ScriptPOSIX,
	}, nil)
	require.ErrorIs(t, err, specerrors.ErrDirectoryExists)
	assert.DirExists(t, target)
}

func TestRun_InvalidRequest(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, templateZip(t), http.StatusOK)
	p := newPipeline(t, srv, &fakeGit{})

	tests := []struct {
		name string
		req  Request
	}{
		{name: "empty path", req: Request{Assistant: "claude", Script: constants.ScriptPOSIX}},
		{name: "unknown assistant", req: Request{Target: domain.InstallTarget{Path: "x"}, Assistant: "vim", Script: constants.ScriptPOSIX}},
		{name: "unknown script", req: Request{Target: domain.InstallTarget{Path: "x"}, Assistant: "claude", Script: "bat"}},
		{name: "bad override", req: Request{Target: domain.InstallTarget{Path: filepath.Join(t.TempDir(), "x")}, Assistant: "claude", Script: constants.ScriptPOSIX, Override: "legacy"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := p.Run(context.Background(), tc.req, nil)
			require.ErrorIs(t, err, specerrors.ErrInvalidArgument)
		})
	}
}

func TestRun_LocalTemplates(t *testing.T) {
	t.Parallel()
	local := t.TempDir()
	testutil.WriteTree(t, local, map[string]string{
		".specify/memory/constitution.md": "rules",
		".gemini/commands/plan.toml":      "plan",
		".claude/ignored.md":              "not copied",
	})
	target := filepath.Join(t.TempDir(), "demo")
	tr := tracker.New(Title)
	srv := releaseServer(t, nil, http.StatusInternalServerError)

	_, err := newPipeline(t, srv, &fakeGit{}).Run(context.Background(), Request{
		Target:         domain.InstallTarget{Path: target},
		Assistant:      "gemini",
		Script:         constants.ScriptPOSIX,
		LocalTemplates: local,
		NoGit:          true,
	}, tr)
	require.NoError(t, err)

	assert.Equal(t, "rules", testutil.ReadFile(t, target, ".specify/memory/constitution.md"))
	assert.Equal(t, "plan", testutil.ReadFile(t, target, ".gemini/commands/plan.toml"))
	assert.NoDirExists(t, filepath.Join(target, ".claude"))

	_, fetched := tr.Step(StepFetch)
	assert.False(t, fetched, "local runs never contact the release host")
	assert.Equal(t, constants.StepDone, stepOf(t, tr, install.StepLocalCopy).Status)
	assert.Equal(t, constants.StepSkipped, stepOf(t, tr, StepGit).Status)
	assert.Equal(t, "--no-git flag", stepOf(t, tr, StepGit).Detail)
}

func TestRun_MissingLocalTemplates(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "demo")
	srv := releaseServer(t, nil, http.StatusOK)

	_, err := newPipeline(t, srv, &fakeGit{}).Run(context.Background(), Request{
		Target:         domain.InstallTarget{Path: target},
		Assistant:      "claude",
		Script:         constants.ScriptPOSIX,
		LocalTemplates: filepath.Join(t.TempDir(), "absent"),
	}, nil)
	require.ErrorIs(t, err, specerrors.ErrNotFound)
	assert.NoDirExists(t, target)
}

func TestRun_DegradedStepsDoNotAbort(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, templateZip(t), http.StatusOK)
	p := newPipeline(t, srv, &fakeGit{available: true, initErr: specerrors.ErrGitOperation})
	p.svc.Store = failingStore{}
	target := filepath.Join(t.TempDir(), "demo")
	tr := tracker.New(Title)

	res, err := p.Run(context.Background(), Request{
		Target:    domain.InstallTarget{Path: target},
		Assistant: "claude",
		Script:    constants.ScriptPOSIX,
	}, tr)
	require.NoError(t, err)
	assert.DirExists(t, target)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "failed to persist classification")
	assert.Contains(t, res.Warnings[1], "git init failed")
	assert.Equal(t, "init failed", stepOf(t, tr, StepGit).Detail)
	assert.Equal(t, constants.StepError, stepOf(t, tr, StepPersist).Status)
	assert.Equal(t, constants.StepDone, stepOf(t, tr, StepFinal).Status)
}

func TestRun_GitUnavailable(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, templateZip(t), http.StatusOK)
	tr := tracker.New(Title)

	_, err := newPipeline(t, srv, &fakeGit{}).Run(context.Background(), Request{
		Target:    domain.InstallTarget{Path: filepath.Join(t.TempDir(), "demo")},
		Assistant: "claude",
		Script:    constants.ScriptPOSIX,
	}, tr)
	require.NoError(t, err)
	assert.Equal(t, "git not available", stepOf(t, tr, StepGit).Detail)
}

func TestRun_CanceledContextRemovesFreshTarget(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, templateZip(t), http.StatusOK)
	target := filepath.Join(t.TempDir(), "demo")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline(t, srv, &fakeGit{}).Run(ctx, Request{
		Target:    domain.InstallTarget{Path: target},
		Assistant: "claude",
		Script:    constants.ScriptPOSIX,
	}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, target)
}

func TestRun_UsesPrecomputedClassification(t *testing.T) {
	t.Parallel()
	srv := releaseServer(t, templateZip(t), http.StatusOK)
	verdict := &domain.Classification{ProjectType: constants.ProjectTypeBrownfield, ConfidenceScore: 99}
	tr := tracker.New(Title)

	res, err := newPipeline(t, srv, &fakeGit{}).Run(context.Background(), Request{
		Target:         domain.InstallTarget{Path: filepath.Join(t.TempDir(), "demo")},
		Assistant:      "claude",
		Script:         constants.ScriptPOSIX,
		Classification: verdict,
	}, tr)
	require.NoError(t, err)
	assert.Same(t, verdict, res.Classification)
	assert.Equal(t, "brownfield (99/100)", stepOf(t, tr, StepClassification).Detail)
}

func TestProgress_UpdatesOncePerPercent(t *testing.T) {
	t.Parallel()
	calls := 0
	p := New(Services{}, WithDownloadDetail(func(string, int64, int64) string {
		calls++
		return "detail"
	}))
	tr := tracker.New(Title)
	fn := p.progress(tr, "a.zip")
	for written := int64(1); written <= 1000; written++ {
		fn(written, 1000)
	}
	assert.Equal(t, 101, calls)
	assert.Equal(t, "detail", stepOf(t, tr, StepDownload).Detail)
}

func TestGroupDigits(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1,234,567", groupDigits(1234567))
	assert.Equal(t, "12", groupDigits(12))
	assert.Equal(t, "a.zip 2,048/4,096 bytes", plainDetail("a.zip", 2048, 4096))
}
