package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/errors"
)

// newViperInstance creates a viper with defaults and SPECIFY_ env support.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// viperDecoderOption lets duration keys be written as "30s" in YAML and env.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads the global config file (if any), environment and defaults.
// A missing config file is not an error.
func Load(ctx context.Context) (*Config, error) {
	path, err := GlobalConfigPath()
	if err != nil {
		// No home directory: env and defaults still apply.
		path = ""
	}
	cfg, err := LoadFromPath(ctx, path)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("github.owner", cfg.GitHub.Owner).
		Str("github.repo", cfg.GitHub.Repo).
		Dur("network.list_timeout", cfg.Network.ListTimeout).
		Dur("network.download_timeout", cfg.Network.DownloadTimeout).
		Msg("configuration loaded")
	return cfg, nil
}

// LoadFromPath loads configuration using a specific global config file.
// An empty or nonexistent path skips the file layer.
func LoadFromPath(_ context.Context, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" && fileExists(globalConfigPath) {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero override values are applied.
//
// SkipTLS is a bool and cannot be overridden to false here; the CLI only
// sets it when --skip-tls is passed.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		applyOverrides(cfg, overrides)
	}
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

func applyOverrides(cfg, overrides *Config) {
	if overrides.GitHub.Owner != "" {
		cfg.GitHub.Owner = overrides.GitHub.Owner
	}
	if overrides.GitHub.Repo != "" {
		cfg.GitHub.Repo = overrides.GitHub.Repo
	}
	if overrides.GitHub.APIBaseURL != "" {
		cfg.GitHub.APIBaseURL = overrides.GitHub.APIBaseURL
	}
	if overrides.Network.ListTimeout != 0 {
		cfg.Network.ListTimeout = overrides.Network.ListTimeout
	}
	if overrides.Network.DownloadTimeout != 0 {
		cfg.Network.DownloadTimeout = overrides.Network.DownloadTimeout
	}
	if overrides.Network.SkipTLS {
		cfg.Network.SkipTLS = true
	}
	if overrides.Defaults.Assistant != "" {
		cfg.Defaults.Assistant = overrides.Defaults.Assistant
	}
	if overrides.Defaults.Script != "" {
		cfg.Defaults.Script = overrides.Defaults.Script
	}
}
