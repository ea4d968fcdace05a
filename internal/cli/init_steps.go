package cli

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/domain"
)

// codexNotice is shown after a Codex project is initialized.
const codexNotice = "Custom prompts do not yet support arguments in Codex. You may need to manually specify additional project instructions directly in prompt files located in .codex/prompts/.\n" +
	"For more information, see: https://github.com/openai/codex/issues/2890"

// slashCommand is one entry of the closing command list.
type slashCommand struct {
	name string
	desc string
}

//nolint:gochecknoglobals // Read-only lookup table
var slashCommands = []slashCommand{
	{"/constitution", "Establish project principles"},
	{"/specify", "Create specifications"},
	{"/clarify", "Clarify and de-risk specification (run before /plan)"},
	{"/plan", "Create implementation plans"},
	{"/tasks", "Generate actionable tasks"},
	{"/analyze", "Validate alignment & surface inconsistencies (read-only)"},
	{"/implement", "Execute implementation"},
}

// shellSafe matches words that need no quoting in a POSIX shell.
//
//nolint:gochecknoglobals // Compiled once
var shellSafe = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// nextStepsMarkdown builds the numbered closing instructions.
func nextStepsMarkdown(name string, target domain.InstallTarget, a constants.AssistantInfo, c *domain.Classification, goos string) string {
	var b strings.Builder
	n := 0
	item := func(format string, args ...any) {
		n++
		fmt.Fprintf(&b, "%d. "+format+"\n", append([]any{n}, args...)...)
	}

	if target.IsCurrentDir {
		item("You're already in the project directory!")
	} else {
		item("Go to the project folder: `cd %s`", name)
	}

	if c != nil {
		heading := ""
		switch c.ProjectType {
		case constants.ProjectTypeBrownfield:
			heading = "BROWNFIELD PROJECT INTEGRATION"
		case constants.ProjectTypeOngoing:
			heading = "ONGOING PROJECT ALIGNMENT"
		case constants.ProjectTypeGreenfield, constants.ProjectTypeAuto:
		}
		if heading != "" {
			item("**%s**", heading)
			recs := c.MigrationRecommendations
			if len(recs) == 0 {
				recs = []string{"Review existing artifacts before applying templates"}
			}
			for i, r := range recs {
				fmt.Fprintf(&b, "   - %d.%d %s\n", n, i+1, r)
			}
		}
	}

	if a.Name == constants.AssistantCodex {
		codexHome := filepath.Join(target.Path, ".codex")
		if goos == "windows" {
			item("Set `%s` environment variable before running Codex: `setx %s \"%s\"`", constants.EnvCodexHome, constants.EnvCodexHome, codexHome)
		} else {
			item("Set `%s` environment variable before running Codex: `export %s=%s`", constants.EnvCodexHome, constants.EnvCodexHome, shellQuote(codexHome))
		}
	}

	item("Start using slash commands with your AI agent:")
	for _, sc := range slashCommands {
		fmt.Fprintf(&b, "   - `%s` - %s\n", sc.name, sc.desc)
	}
	return b.String()
}

// shellQuote quotes s for a POSIX shell when it contains special characters.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
