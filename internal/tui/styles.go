// Package tui provides terminal user interface components for specify.
//
// All colors use AdaptiveColor for light/dark terminal support. Five
// semantic colors are shared across components:
//   - ColorPrimary (Blue): active states, paths, commands
//   - ColorSuccess (Green): completed items
//   - ColorWarning (Yellow): attention required
//   - ColorError (Red): failures
//   - ColorMuted (Gray): secondary text
//
// Call CheckNoColor() before rendering to respect NO_COLOR and TERM=dumb.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for active states and commands.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for success states.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warnings.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for error states.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// ColorDebug is magenta, used for the --debug environment panel.
	ColorDebug = lipgloss.AdaptiveColor{Light: "#AF00AF", Dark: "#FF87FF"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies dim/faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// DefaultBoxWidth is the default width for panels.
const DefaultBoxWidth = 72

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Accent  lipgloss.Style
}

// NewOutputStyles creates common output styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Accent:  lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true),
	}
}

// CheckNoColor switches lipgloss to plain ASCII when colors are unwanted.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns false if NO_COLOR is set (any value, including
// empty) or TERM=dumb. See https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return !strings.EqualFold(os.Getenv("TERM"), "dumb")
}

// Panel renders body inside a rounded border in color, with title on the
// first line. Width 0 sizes the panel to its content.
func Panel(title, body string, color lipgloss.TerminalColor, width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2)
	if width > 0 {
		box = box.Width(width)
	}
	content := body
	if title != "" {
		content = lipgloss.NewStyle().Foreground(color).Bold(true).Render(title) + "\n\n" + body
	}
	return box.Render(content)
}

// KeyValueLines left-aligns labels to a common width: "Label    value".
func KeyValueLines(pairs [][2]string, sep string) string {
	width := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > width {
			width = w
		}
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		pad := strings.Repeat(" ", width-lipgloss.Width(p[0]))
		lines = append(lines, p[0]+pad+sep+p[1])
	}
	return strings.Join(lines, "\n")
}
