package constants

// Assistant names an AI-assistant integration a template can target.
type Assistant string

const (
	AssistantCopilot  Assistant = "copilot"
	AssistantClaude   Assistant = "claude"
	AssistantGemini   Assistant = "gemini"
	AssistantCursor   Assistant = "cursor"
	AssistantQwen     Assistant = "qwen"
	AssistantOpenCode Assistant = "opencode"
	AssistantCodex    Assistant = "codex"
	AssistantWindsurf Assistant = "windsurf"
	AssistantKiloCode Assistant = "kilocode"
	AssistantAuggie   Assistant = "auggie"
	AssistantRoo      Assistant = "roo"
)

// String returns the string representation of the Assistant.
func (a Assistant) String() string {
	return string(a)
}

// AssistantInfo describes how an assistant integrates with a project.
type AssistantInfo struct {
	// Name is the assistant identifier.
	Name Assistant
	// DisplayName is shown in menus.
	DisplayName string
	// Folder is the project-local directory the assistant's templates live in.
	Folder string
	// Tool is the CLI binary checked for on PATH. Empty for IDE-based assistants.
	Tool string
	// InstallURL points at install instructions when Tool is missing.
	InstallURL string
}

// Assistants lists the supported assistants in menu order.
//
//nolint:gochecknoglobals // Read-only lookup table
var Assistants = []AssistantInfo{
	{Name: AssistantCopilot, DisplayName: "GitHub Copilot", Folder: ".github"},
	{Name: AssistantClaude, DisplayName: "Claude Code", Folder: ".claude", Tool: "claude", InstallURL: "https://docs.anthropic.com/en/docs/claude-code/setup"},
	{Name: AssistantGemini, DisplayName: "Gemini CLI", Folder: ".gemini", Tool: "gemini", InstallURL: "https://github.com/google-gemini/gemini-cli"},
	{Name: AssistantCursor, DisplayName: "Cursor", Folder: ".cursor"},
	{Name: AssistantQwen, DisplayName: "Qwen Code", Folder: ".qwen", Tool: "qwen", InstallURL: "https://github.com/QwenLM/qwen-code"},
	{Name: AssistantOpenCode, DisplayName: "opencode", Folder: ".opencode", Tool: "opencode", InstallURL: "https://opencode.ai"},
	{Name: AssistantCodex, DisplayName: "Codex CLI", Folder: ".codex", Tool: "codex", InstallURL: "https://github.com/openai/codex"},
	{Name: AssistantWindsurf, DisplayName: "Windsurf", Folder: ".windsurf"},
	{Name: AssistantKiloCode, DisplayName: "Kilo Code", Folder: ".kilocode"},
	{Name: AssistantAuggie, DisplayName: "Auggie CLI", Folder: ".augment", Tool: "auggie", InstallURL: "https://docs.augmentcode.com/cli/setup-auggie/install-auggie-cli"},
	{Name: AssistantRoo, DisplayName: "Roo Code", Folder: ".roo"},
}

// LookupAssistant returns the info for name, if supported.
func LookupAssistant(name string) (AssistantInfo, bool) {
	for _, a := range Assistants {
		if string(a.Name) == name {
			return a, true
		}
	}
	return AssistantInfo{}, false
}

// ScriptType selects the helper script flavor shipped in a template.
type ScriptType string

const (
	// ScriptPOSIX selects POSIX shell scripts.
	ScriptPOSIX ScriptType = "sh"

	// ScriptPowerShell selects PowerShell scripts.
	ScriptPowerShell ScriptType = "ps"
)

// String returns the string representation of the ScriptType.
func (s ScriptType) String() string {
	return string(s)
}

// ScriptTypes maps each script flavor to its menu label.
//
//nolint:gochecknoglobals // Read-only lookup table
var ScriptTypes = map[ScriptType]string{
	ScriptPOSIX:      "POSIX Shell (bash/zsh)",
	ScriptPowerShell: "PowerShell",
}

// Output format constants for CLI output.
const (
	// OutputText is the human-readable output format.
	OutputText = "text"

	// OutputJSON is the machine-readable output format.
	OutputJSON = "json"
)
