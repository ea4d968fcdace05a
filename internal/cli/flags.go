package cli

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/signal"
)

// Exit codes for the CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitError indicates a general error.
	ExitError = 1
	// ExitInvalidInput indicates invalid user input.
	ExitInvalidInput = 2
	// ExitInterrupted indicates the run was stopped by a signal or an aborted prompt.
	ExitInterrupted = signal.ExitCodeInterrupted
)

// GlobalFlags holds flags available to all commands.
type GlobalFlags struct {
	// Output specifies the output format (text or json).
	Output string
	// Verbose enables debug-level logging.
	Verbose bool
	// Quiet suppresses non-essential output (warn level only).
	Quiet bool
}

// AddGlobalFlags adds global flags to a command.
// These flags are available to all subcommands via PersistentFlags.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVarP(&flags.Output, "output", "o", constants.OutputText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper for environment variable
// support. The SPECIFY_ prefix is used (e.g., SPECIFY_OUTPUT, SPECIFY_VERBOSE).
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	// Root().PersistentFlags() finds the flags even from a subcommand.
	rootFlags := cmd.Root().PersistentFlags()

	for _, name := range []string{"output", "verbose", "quiet"} {
		if err := v.BindPFlag(name, rootFlags.Lookup(name)); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	return nil
}

// ValidOutputFormats returns the list of valid output format values.
func ValidOutputFormats() []string {
	return []string{constants.OutputText, constants.OutputJSON}
}

// IsValidOutputFormat checks if the given format is a valid output format.
func IsValidOutputFormat(format string) bool {
	for _, valid := range ValidOutputFormats() {
		if format == valid {
			return true
		}
	}
	return false
}

// ExitCodeForError returns the appropriate exit code for the given error.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, errors.ErrUserCanceled) {
		return ExitInterrupted
	}

	if errors.IsExitCode2Error(err) {
		return ExitInvalidInput
	}

	for _, sentinel := range []error{
		errors.ErrInvalidOutputFormat,
		errors.ErrInvalidArgument,
		errors.ErrConflictingFlags,
	} {
		if stderrors.Is(err, sentinel) {
			return ExitInvalidInput
		}
	}

	// Cobra flag parsing errors (mutually exclusive flags, unknown flags, etc.)
	if isInvalidInputError(err.Error()) {
		return ExitInvalidInput
	}

	return ExitError
}

// isInvalidInputError checks if an error message indicates invalid user input.
// This catches Cobra's built-in flag validation errors.
func isInvalidInputError(errMsg string) bool {
	invalidInputPatterns := []string{
		"unknown flag",
		"unknown shorthand flag",
		"flag needs an argument",
		"invalid argument",
		"if any flags in the group",
		"required flag",
		"unknown command",
		"accepts at most",
	}

	for _, pattern := range invalidInputPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
