// Package cli provides the command-line interface for specify.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/tui"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
// Access is protected by globalLoggerMu for thread safety.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// It MUST only be called after the root command's PersistentPreRunE has
// executed. Before that it returns a zero-value logger that discards
// everything.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates and returns the root command for the specify CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Setup tool for Specify spec-driven development projects",
		Long: `specify bootstraps a project from the latest Spec Kit template release,
tailored to your AI assistant and script flavor.

Before touching a directory it classifies it as greenfield, ongoing or
brownfield and asks for confirmation when existing work could be overwritten.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.Banner())
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			tui.CheckNoColor()

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			logger := GetLogger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			CloseLogFile()
		},
		// We print our own error messages.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddInitCommand(cmd, flags)
	AddCheckCommand(cmd, flags)
	AddClassifyCommand(cmd, flags)
	AddConfigCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
// Errors are reported on stderr in the selected output format before being
// returned; errors already emitted as JSON are not printed twice.
func Execute(ctx context.Context, info BuildInfo) error {
	defer CloseLogFile()

	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.IsReported(err) {
		tui.NewOutput(cmd.ErrOrStderr(), flags.Output).Error(err)
	}
	return err
}
