package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinels to user-facing text. Order matters: the
// first entry whose sentinel matches through errors.Is wins, so specific
// sentinels come before the broad categories.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrUserCanceled,
		info: ErrorInfo{
			Message: "Operation canceled.",
		},
	},
	{
		err: ErrNonInteractiveMode,
		info: ErrorInfo{
			Message: "Confirmation is required but no terminal is attached.",
			Action:  "Re-run with --force to proceed without confirmation.",
		},
	},
	{
		err: ErrDirectoryExists,
		info: ErrorInfo{
			Message: "The target directory already exists.",
			Action:  "Choose a different project name, or run inside it with --here.",
		},
	},
	{
		err: ErrConflictingFlags,
		info: ErrorInfo{
			Message: "Conflicting flags or arguments were provided.",
			Action:  "Pass either a project name or --here, not both.",
		},
	},
	{
		err: ErrAgentToolMissing,
		info: ErrorInfo{
			Message: "The selected assistant CLI is not installed.",
			Action:  "Install it, or pass --ignore-agent-tools to skip the check.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid values.",
		},
	},
	{
		err: ErrNotFound,
		info: ErrorInfo{
			Message: "A required template resource was not found.",
			Action:  "Check the assistant and script selection, or the --local-templates path.",
		},
	},
	{
		err: ErrNetwork,
		info: ErrorInfo{
			Message: "Could not reach the template host.",
			Action:  "Check your network connection and GH_TOKEN/GITHUB_TOKEN, or re-run with --debug.",
		},
	},
	{
		err: ErrGitOperation,
		info: ErrorInfo{
			Message: "A git command failed.",
			Action:  "Re-run with --no-git to skip repository initialization.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Another process holds the state file lock.",
			Action:  "Wait for the other specify process to finish and retry.",
		},
	},
	{
		err: ErrFilesystem,
		info: ErrorInfo{
			Message: "A filesystem operation failed.",
			Action:  "Check permissions and free space on the target directory.",
		},
	},
}

func getErrorInfo(err error) ErrorInfo {
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action. The action is empty when there is nothing useful to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
