package bootstrap

import (
	"context"

	"github.com/mrz1836/specify/internal/classify"
	"github.com/mrz1836/specify/internal/clock"
	"github.com/mrz1836/specify/internal/config"
	"github.com/mrz1836/specify/internal/domain"
	"github.com/mrz1836/specify/internal/git"
	"github.com/mrz1836/specify/internal/install"
	"github.com/mrz1836/specify/internal/source"
	"github.com/mrz1836/specify/internal/state"
)

// ReleaseFetcher looks up the latest template release.
type ReleaseFetcher interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*source.Release, error)
}

// AssetDownloader streams a release asset to disk.
type AssetDownloader interface {
	Download(ctx context.Context, url, destPath string, onProgress source.ProgressFunc) (int64, error)
}

// ArchiveInstaller unpacks a downloaded archive into the target.
type ArchiveInstaller interface {
	Install(ctx context.Context, archivePath string, target domain.InstallTarget, rep install.Reporter) error
}

// ClassificationStore persists the verdict next to the project.
type ClassificationStore interface {
	Save(ctx context.Context, projectPath string, v *domain.Classification) error
}

// Classifier produces a verdict for a target directory.
type Classifier interface {
	Classify(ctx context.Context, dir, override string) (*domain.Classification, error)
}

// GitOps is the slice of git the pipeline needs.
type GitOps interface {
	Available() bool
	IsRepo(ctx context.Context, dir string) bool
	InitRepo(ctx context.Context, dir string) error
}

// SystemGit runs the git binary on PATH.
type SystemGit struct{}

// Available reports whether git is on PATH.
func (SystemGit) Available() bool { return git.Available() }

// IsRepo reports whether dir is inside a work tree.
func (SystemGit) IsRepo(ctx context.Context, dir string) bool { return git.IsRepo(ctx, dir) }

// InitRepo creates a repository with an initial commit.
func (SystemGit) InitRepo(ctx context.Context, dir string) error { return git.InitRepo(ctx, dir) }

// Services holds the collaborators a Pipeline drives.
type Services struct {
	Releases   ReleaseFetcher
	Downloader AssetDownloader
	Installer  ArchiveInstaller
	Store      ClassificationStore
	Classifier Classifier
	Git        GitOps

	// Owner and Repo name the repository whose releases carry templates.
	Owner string
	Repo  string
}

// NewServices wires the production collaborators from cfg. One HTTP client
// is shared by the listing and the download so both honor SkipTLS.
func NewServices(cfg *config.Config, token string) Services {
	httpClient := source.NewHTTPClient(cfg.Network.SkipTLS)
	clk := clock.RealClock{}
	return Services{
		Releases:   source.NewReleaseClient(httpClient, cfg.GitHub.APIBaseURL, token, cfg.Network.ListTimeout),
		Downloader: source.NewDownloader(httpClient, token, cfg.Network.DownloadTimeout),
		Installer:  install.New(),
		Store:      state.NewFileStore(clk),
		Classifier: classify.New(classify.WithClock(clk)),
		Git:        SystemGit{},
		Owner:      cfg.GitHub.Owner,
		Repo:       cfg.GitHub.Repo,
	}
}
