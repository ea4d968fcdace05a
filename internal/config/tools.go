// This file implements tool detection for `specify check` and the agent
// tool check in `specify init`.
package config

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/specify/internal/constants"
)

//nolint:gochecknoglobals // Package-level compiled regexes
var (
	gitVersionRe     = regexp.MustCompile(`git version (\d+\.\d+(?:\.\d+)?)`)
	genericVersionRe = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)
)

// ToolStatus represents the installation status of an external tool.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type ToolStatus int

const (
	// ToolStatusMissing indicates the tool is not on PATH.
	ToolStatusMissing ToolStatus = iota

	// ToolStatusInstalled indicates the tool was found.
	ToolStatusInstalled
)

// String returns a human-readable representation of the tool status.
func (s ToolStatus) String() string {
	switch s {
	case ToolStatusInstalled:
		return "installed"
	case ToolStatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for human-readable JSON output.
func (s ToolStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. Unknown values read as missing.
func (s *ToolStatus) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	if str == "installed" {
		*s = ToolStatusInstalled
	} else {
		*s = ToolStatusMissing
	}
	return nil
}

// Tool is the detection result for one external tool.
type Tool struct {
	// Name is the executable name (e.g., "git", "claude").
	Name string `json:"name"`

	// Label is the human-readable description shown in the check tree.
	Label string `json:"label"`

	// Path is where the executable was found.
	Path string `json:"path,omitempty"`

	// Version is the parsed version, "unknown" when the tool did not say.
	Version string `json:"version,omitempty"`

	// Status is the current installation status.
	Status ToolStatus `json:"status"`

	// InstallHint points at install instructions.
	InstallHint string `json:"install_hint,omitempty"`
}

// Found reports whether the tool is installed.
func (t Tool) Found() bool {
	return t.Status == ToolStatusInstalled
}

// ToolDetectionResult holds the results of detecting all tools, in the
// fixed order of the check list.
type ToolDetectionResult struct {
	Tools []Tool `json:"tools"`

	// GitFound is true when git is available.
	GitFound bool `json:"git_found"`

	// AnyAssistantFound is true when at least one assistant CLI or IDE is available.
	AnyAssistantFound bool `json:"any_assistant_found"`
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the PATH.
	LookPath(file string) (string, error)

	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// DefaultCommandExecutor implements CommandExecutor using os/exec.
type DefaultCommandExecutor struct{}

// LookPath searches for an executable in the PATH.
func (e *DefaultCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes a command and returns its output.
func (e *DefaultCommandExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) //#nosec G204 -- name comes from the fixed tool list
	cmd.Stdin = nil
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// ToolDetector detects the installation status of external tools.
type ToolDetector interface {
	// Detect checks every tool on the check list.
	Detect(ctx context.Context) (*ToolDetectionResult, error)

	// DetectOne checks a single executable.
	DetectOne(ctx context.Context, name string) Tool
}

// DefaultToolDetector implements ToolDetector.
type DefaultToolDetector struct {
	executor        CommandExecutor
	claudeLocalPath string
}

// NewToolDetector creates a DefaultToolDetector with the default executor.
func NewToolDetector() *DefaultToolDetector {
	return NewToolDetectorWithExecutor(&DefaultCommandExecutor{})
}

// NewToolDetectorWithExecutor creates a DefaultToolDetector with a custom executor.
func NewToolDetectorWithExecutor(executor CommandExecutor) *DefaultToolDetector {
	d := &DefaultToolDetector{executor: executor}
	if home, err := os.UserHomeDir(); err == nil {
		d.claudeLocalPath = filepath.Join(home, ".claude", "local", "claude")
	}
	return d
}

// WithClaudeLocalPath overrides where a migrated Claude install is looked for.
func (d *DefaultToolDetector) WithClaudeLocalPath(path string) *DefaultToolDetector {
	d.claudeLocalPath = path
	return d
}

type toolConfig struct {
	name        string
	label       string
	versionFlag string
	assistant   bool
	installHint string
	parseFunc   func(output string) string
}

// getToolConfigs returns the check list in display order. IDE launchers
// have no version flag; running them can open a window.
func getToolConfigs() []toolConfig {
	configs := []toolConfig{
		{name: "git", label: "Git version control", versionFlag: "--version", installHint: "https://git-scm.com/downloads", parseFunc: parseGitVersion},
	}
	for _, a := range constants.Assistants {
		if a.Tool == "" {
			continue
		}
		configs = append(configs, toolConfig{
			name:        a.Tool,
			label:       a.DisplayName,
			versionFlag: "--version",
			assistant:   true,
			installHint: a.InstallURL,
			parseFunc:   parseGenericVersion,
		})
	}
	return append(configs,
		toolConfig{name: "code", label: "Visual Studio Code", assistant: true},
		toolConfig{name: "code-insiders", label: "Visual Studio Code Insiders", assistant: true},
		toolConfig{name: "cursor-agent", label: "Cursor IDE agent", assistant: true},
		toolConfig{name: "windsurf", label: "Windsurf IDE", assistant: true},
		toolConfig{name: "kilocode", label: "Kilo Code IDE", assistant: true},
	)
}

// Detect checks all configured tools concurrently. Results keep list order.
func (d *DefaultToolDetector) Detect(ctx context.Context) (*ToolDetectionResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	detectCtx, cancel := context.WithTimeout(ctx, constants.ToolDetectionTimeout)
	defer cancel()

	configs := getToolConfigs()
	result := &ToolDetectionResult{Tools: make([]Tool, len(configs))}

	g, gCtx := errgroup.WithContext(detectCtx)
	for i, cfg := range configs {
		g.Go(func() error {
			result.Tools[i] = d.detectTool(gCtx, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to detect tools: %w", err)
	}

	for i, tool := range result.Tools {
		if !tool.Found() {
			continue
		}
		if configs[i].assistant {
			result.AnyAssistantFound = true
		} else if tool.Name == "git" {
			result.GitFound = true
		}
	}
	return result, nil
}

// DetectOne checks a single executable by name, using the check list's
// metadata when the name is on it.
func (d *DefaultToolDetector) DetectOne(ctx context.Context, name string) Tool {
	for _, cfg := range getToolConfigs() {
		if cfg.name == name {
			return d.detectTool(ctx, cfg)
		}
	}
	return d.detectTool(ctx, toolConfig{name: name, label: name})
}

func (d *DefaultToolDetector) detectTool(ctx context.Context, cfg toolConfig) Tool {
	tool := Tool{
		Name:        cfg.name,
		Label:       cfg.label,
		InstallHint: cfg.installHint,
		Status:      ToolStatusMissing,
	}

	// `claude migrate-installer` removes claude from PATH and leaves it here.
	if cfg.name == "claude" && d.claudeLocalPath != "" {
		if info, err := os.Stat(d.claudeLocalPath); err == nil && info.Mode().IsRegular() {
			tool.Path = d.claudeLocalPath
		}
	}
	if tool.Path == "" {
		path, err := d.executor.LookPath(cfg.name)
		if err != nil {
			return tool
		}
		tool.Path = path
	}
	tool.Status = ToolStatusInstalled

	if cfg.versionFlag == "" || cfg.parseFunc == nil {
		return tool
	}
	tool.Version = "unknown"
	output, err := d.executor.Run(ctx, tool.Path, cfg.versionFlag)
	if err != nil {
		return tool
	}
	if v := cfg.parseFunc(output); v != "" {
		tool.Version = v
	}
	return tool
}

// parseGitVersion parses "git version 2.39.0" → "2.39.0"
func parseGitVersion(output string) string {
	if m := gitVersionRe.FindStringSubmatch(output); len(m) > 1 {
		return m[1]
	}
	return ""
}

// parseGenericVersion extracts the first dotted version in output.
func parseGenericVersion(output string) string {
	if m := genericVersionRe.FindStringSubmatch(output); len(m) > 1 {
		return m[1]
	}
	return ""
}
