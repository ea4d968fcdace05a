// Package config provides configuration management for specify with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (SPECIFY_* prefix, e.g. SPECIFY_GITHUB_OWNER)
//  3. Global config (~/.specify/config.yaml, or $SPECIFY_HOME/config.yaml)
//  4. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for specify.
type Config struct {
	// GitHub locates the repository that publishes template releases.
	GitHub GitHubConfig `yaml:"github" mapstructure:"github" json:"github"`

	// Network bounds the release listing and asset download.
	Network NetworkConfig `yaml:"network" mapstructure:"network" json:"network"`

	// Defaults pre-select choices that init would otherwise prompt for.
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults" json:"defaults"`
}

// GitHubConfig locates the template release feed.
type GitHubConfig struct {
	// Owner is the repository owner. Default: "mbpfws"
	Owner string `yaml:"owner" mapstructure:"owner" json:"owner"`

	// Repo is the repository name. Default: "spec-kit"
	Repo string `yaml:"repo" mapstructure:"repo" json:"repo"`

	// APIBaseURL is the REST API root, useful for GitHub Enterprise.
	// Default: "https://api.github.com"
	APIBaseURL string `yaml:"api_base_url" mapstructure:"api_base_url" json:"api_base_url"`
}

// NetworkConfig controls HTTP behavior.
type NetworkConfig struct {
	// ListTimeout bounds the whole release listing request. Default: 30s
	ListTimeout time.Duration `yaml:"list_timeout" mapstructure:"list_timeout" json:"list_timeout"`

	// DownloadTimeout is the longest the asset download may stall without
	// receiving data. Default: 60s
	DownloadTimeout time.Duration `yaml:"download_timeout" mapstructure:"download_timeout" json:"download_timeout"`

	// SkipTLS disables certificate verification. Not recommended.
	SkipTLS bool `yaml:"skip_tls" mapstructure:"skip_tls" json:"skip_tls"`
}

// DefaultsConfig holds default selections for init.
type DefaultsConfig struct {
	// Assistant is used when --ai is not passed. Empty means prompt.
	Assistant string `yaml:"assistant" mapstructure:"assistant" json:"assistant"`

	// Script is used when --script is not passed. Empty means sh on POSIX
	// and ps on Windows.
	Script string `yaml:"script" mapstructure:"script" json:"script"`
}
