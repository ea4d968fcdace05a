package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
███████╗██████╗ ███████╗ ██████╗██╗███████╗██╗   ██╗
██╔════╝██╔══██╗██╔════╝██╔════╝██║██╔════╝╚██╗ ██╔╝
███████╗██████╔╝█████╗  ██║     ██║█████╗   ╚████╔╝
╚════██║██╔═══╝ ██╔══╝  ██║     ██║██╔══╝    ╚██╔╝
███████║██║     ███████╗╚██████╗██║██║        ██║
╚══════╝╚═╝     ╚══════╝ ╚═════╝╚═╝╚═╝        ╚═╝`

// Tagline is printed under the banner.
const Tagline = "Spec Kit - Spec-Driven Development Toolkit"

//nolint:gochecknoglobals // Banner gradient, top to bottom
var bannerColors = []lipgloss.Color{"#5F87FF", "#5F87D7", "#00AFD7", "#00D7FF", "#D7D7D7", "#FFFFFF"}

// Banner renders the ASCII banner with a top-to-bottom gradient and the
// tagline, centered on DefaultBoxWidth.
func Banner() string {
	lines := strings.Split(strings.TrimPrefix(bannerArt, "\n"), "\n")
	width := 0
	for _, line := range lines {
		width = max(width, lipgloss.Width(line))
	}
	width = max(width, DefaultBoxWidth)

	var b strings.Builder
	for i, line := range lines {
		style := lipgloss.NewStyle().Foreground(bannerColors[i%len(bannerColors)])
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteByte('\n')
	}
	tagline := lipgloss.NewStyle().Italic(true).Foreground(ColorWarning).Render(Tagline)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, tagline))
	b.WriteByte('\n')
	return b.String()
}
