package config

import (
	"net/url"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - github.owner and github.repo must not be empty
//   - github.api_base_url must be an absolute http(s) URL
//   - network timeouts must be positive
//   - defaults.assistant and defaults.script must be empty or supported
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if err := validateGitHubConfig(&cfg.GitHub); err != nil {
		return err
	}
	if err := validateNetworkConfig(&cfg.Network); err != nil {
		return err
	}
	return validateDefaultsConfig(&cfg.Defaults)
}

func validateGitHubConfig(cfg *GitHubConfig) error {
	if cfg.Owner == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "github.owner must not be empty")
	}
	if cfg.Repo == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "github.repo must not be empty")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return errors.Wrapf(errors.ErrInvalidArgument,
			"github.api_base_url must be an http(s) URL, got %q", cfg.APIBaseURL)
	}
	return nil
}

func validateNetworkConfig(cfg *NetworkConfig) error {
	if cfg.ListTimeout <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"network.list_timeout must be positive, got %s", cfg.ListTimeout)
	}
	if cfg.DownloadTimeout <= 0 {
		return errors.Wrapf(errors.ErrValueOutOfRange,
			"network.download_timeout must be positive, got %s", cfg.DownloadTimeout)
	}
	return nil
}

func validateDefaultsConfig(cfg *DefaultsConfig) error {
	if cfg.Assistant != "" {
		if _, ok := constants.LookupAssistant(cfg.Assistant); !ok {
			return errors.Wrapf(errors.ErrInvalidArgument,
				"defaults.assistant %q is not a supported assistant", cfg.Assistant)
		}
	}
	if cfg.Script != "" {
		if _, ok := constants.ScriptTypes[constants.ScriptType(cfg.Script)]; !ok {
			return errors.Wrapf(errors.ErrInvalidArgument,
				"defaults.script %q must be sh or ps", cfg.Script)
		}
	}
	return nil
}
