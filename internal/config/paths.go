package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/errors"
)

// GlobalConfigDir returns the specify home directory: $SPECIFY_HOME when set,
// otherwise ~/.specify. Logs live here too.
func GlobalConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvSpecifyHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.SpecifyHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// LogFilePath returns the rotating CLI log location.
func LogFilePath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}
