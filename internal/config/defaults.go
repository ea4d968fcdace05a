package config

import (
	"runtime"

	"github.com/spf13/viper"

	"github.com/mrz1836/specify/internal/constants"
)

// DefaultConfig returns a new Config with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Owner:      constants.DefaultRepoOwner,
			Repo:       constants.DefaultRepoName,
			APIBaseURL: constants.DefaultAPIBaseURL,
		},
		Network: NetworkConfig{
			ListTimeout:     constants.DefaultListTimeout,
			DownloadTimeout: constants.DefaultDownloadTimeout,
		},
	}
}

// DefaultScript returns the script flavor native to the running OS.
func DefaultScript() constants.ScriptType {
	if runtime.GOOS == "windows" {
		return constants.ScriptPowerShell
	}
	return constants.ScriptPOSIX
}

// setDefaults mirrors DefaultConfig on a viper instance.
// Every key needs a default so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("github.owner", constants.DefaultRepoOwner)
	v.SetDefault("github.repo", constants.DefaultRepoName)
	v.SetDefault("github.api_base_url", constants.DefaultAPIBaseURL)

	v.SetDefault("network.list_timeout", constants.DefaultListTimeout.String())
	v.SetDefault("network.download_timeout", constants.DefaultDownloadTimeout.String())
	v.SetDefault("network.skip_tls", false)

	v.SetDefault("defaults.assistant", "")
	v.SetDefault("defaults.script", "")
}
