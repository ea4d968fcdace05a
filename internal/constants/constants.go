// Package constants provides centralized constant values used throughout specify.
// This package is the single source of truth for shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Application identity.
const (
	// AppName is the binary and command name.
	AppName = "specify"
)

// Template host defaults. The release listing is served by the GitHub REST API.
const (
	// DefaultRepoOwner owns the repository that publishes template releases.
	DefaultRepoOwner = "mbpfws"

	// DefaultRepoName is the repository that publishes template releases.
	DefaultRepoName = "spec-kit"

	// DefaultAPIBaseURL is the GitHub REST API root.
	DefaultAPIBaseURL = "https://api.github.com"

	// GitHubAPIVersion is sent as X-GitHub-Api-Version.
	GitHubAPIVersion = "2022-11-28"

	// GitHubAcceptHeader is the media type requested from the releases endpoint.
	GitHubAcceptHeader = "application/vnd.github+json"

	// AssetPrefix starts every template asset name; the full pattern is
	// AssetPrefix + "-" + assistant + "-" + script.
	AssetPrefix = "spec-kit-template"

	// AssetExtension is the required suffix of a template asset.
	AssetExtension = ".zip"
)

// Network timeouts.
const (
	// DefaultListTimeout bounds the release listing request.
	DefaultListTimeout = 30 * time.Second

	// DefaultDownloadTimeout bounds the asset download.
	DefaultDownloadTimeout = 60 * time.Second

	// DownloadChunkSize is the buffer size used while streaming an asset.
	DownloadChunkSize = 8192

	// ListingBodyLimit caps the response body kept for a failed release listing.
	ListingBodyLimit = 500

	// DecodeBodyLimit caps the response body kept when a listing cannot be decoded.
	DecodeBodyLimit = 400

	// MaxArchiveFileSize caps a single extracted archive entry.
	MaxArchiveFileSize = 512 * 1024 * 1024
)

// Classification tuning.
const (
	// MaxScanFiles stops the directory scan once this many files are counted.
	MaxScanFiles = 800

	// MaxConfigHits caps the configuration markers recorded in a verdict.
	MaxConfigHits = 12

	// MaxSamplePaths caps the sample paths recorded in a verdict.
	MaxSamplePaths = 6

	// ConfigSignalLimit is how many markers the config signal names before eliding.
	ConfigSignalLimit = 4

	// BrownfieldCommitThreshold: this many commits or more is brownfield.
	BrownfieldCommitThreshold = 20

	// BrownfieldConfigThreshold: this many config markers or more is brownfield.
	BrownfieldConfigThreshold = 2

	// BrownfieldFileThreshold: this many files or more is brownfield.
	BrownfieldFileThreshold = 120

	// OngoingCommitThreshold: this many commits or more is at least ongoing.
	OngoingCommitThreshold = 1

	// OngoingConfigThreshold: this many config markers or more is at least ongoing.
	OngoingConfigThreshold = 1

	// OngoingFileThreshold: this many files or more is at least ongoing.
	OngoingFileThreshold = 12
)

// Environment variables read by specify.
const (
	// EnvGHToken is consulted first for a GitHub token.
	EnvGHToken = "GH_TOKEN"

	// EnvGitHubToken is consulted when GH_TOKEN is unset or blank.
	EnvGitHubToken = "GITHUB_TOKEN"

	// EnvPrefix prefixes every configuration override (SPECIFY_GITHUB_OWNER, ...).
	EnvPrefix = "SPECIFY"

	// EnvCodexHome is the variable Codex reads its prompts directory from.
	EnvCodexHome = "CODEX_HOME"
)

// InitialCommitMessage is used when specify creates the first commit.
const InitialCommitMessage = "Initial commit from Specify template"

// Log file rotation.
const (
	// LogMaxSizeMB rotates the CLI log after this many megabytes.
	LogMaxSizeMB = 10

	// LogMaxBackups is how many rotated CLI logs are kept.
	LogMaxBackups = 3

	// LogMaxAgeDays removes rotated logs older than this.
	LogMaxAgeDays = 28

	// LogCompress gzips rotated logs.
	LogCompress = true
)

// EnvSpecifyHome overrides ~/.specify for config and logs.
const EnvSpecifyHome = "SPECIFY_HOME"

// ToolDetectionTimeout bounds the whole `specify check` probe.
const ToolDetectionTimeout = 10 * time.Second
