package tui

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/domain"
)

// configHitPreview is how many config markers the classification panel names.
const configHitPreview = 3

// ProjectTypeLabel renders a project type for humans: "brownfield" → "Brownfield".
func ProjectTypeLabel(pt constants.ProjectType) string {
	return cases.Title(language.English).String(strings.ReplaceAll(pt.String(), "_", " "))
}

// ClassificationPanel summarizes a verdict with its recommendations and warnings.
func ClassificationPanel(c *domain.Classification) string {
	rows := [][2]string{
		{"Project Type", ProjectTypeLabel(c.ProjectType)},
		{"Confidence", fmt.Sprintf("%d/100", c.ConfidenceScore)},
		{"Files Scanned", fmt.Sprintf("%d", c.Stats.FileCount)},
		{"Git Commits", fmt.Sprintf("%d", c.Stats.GitCommits)},
	}
	if hits := c.Stats.ConfigHits; len(hits) > 0 {
		preview := hits
		suffix := ""
		if len(hits) > configHitPreview {
			preview = hits[:configHitPreview]
			suffix = " …"
		}
		rows = append(rows, [2]string{"Config Files", strings.Join(preview, ", ") + suffix})
	}

	var b strings.Builder
	b.WriteString(KeyValueLines(rows, "    "))
	b.WriteString("\n\nRecommendations:\n")
	if len(c.MigrationRecommendations) == 0 {
		b.WriteString("  No additional safeguards required.")
	}
	for i, r := range c.MigrationRecommendations {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  • " + r)
	}
	if len(c.Warnings) > 0 {
		b.WriteString("\n\nWarnings:")
		for _, w := range c.Warnings {
			b.WriteString("\n  • " + w)
		}
	}
	if len(c.SkippedPaths) > 0 {
		b.WriteString("\n\nUnreadable paths skipped: " + strings.Join(c.SkippedPaths, ", "))
	}
	return Panel("Project Classification", b.String(), ColorWarning, 0)
}

// FailurePanel names the failing step and cause. extra lines (such as
// redacted response headers) are appended under --debug.
func FailurePanel(step, message string, extra []string) string {
	body := message
	if step != "" {
		body = fmt.Sprintf("Step %q failed: %s", step, message)
	}
	if len(extra) > 0 {
		body += "\n\n" + strings.Join(extra, "\n")
	}
	return Panel("Failure", body, ColorError, 0)
}

// DebugEnvPanel renders "Label → value" pairs for --debug.
func DebugEnvPanel(pairs [][2]string) string {
	styled := make([][2]string, len(pairs))
	for i, p := range pairs {
		styled[i] = [2]string{p[0], StyleDim.Render(p[1])}
	}
	return Panel("Debug Environment", KeyValueLines(styled, " → "), ColorDebug, 0)
}

// SecurityNoticePanel warns that folder may hold agent credentials.
func SecurityNoticePanel(folder string) string {
	accent := NewOutputStyles().Accent
	body := "Some agents may store credentials, auth tokens, or other identifying and private artifacts in the agent folder within your project.\n" +
		"Consider adding " + accent.Render(folder+"/") + " (or parts of it) to " + accent.Render(".gitignore") + " to prevent accidental credential leakage."
	return Panel("Agent Folder Security", body, ColorWarning, DefaultBoxWidth)
}
