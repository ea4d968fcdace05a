package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

//nolint:gochecknoglobals // cached renderers, built once per color mode
var (
	glamourRenderers   = map[bool]*glamour.TermRenderer{}
	glamourRenderersMu sync.Mutex
)

func getGlamourRenderer(color bool) *glamour.TermRenderer {
	glamourRenderersMu.Lock()
	defer glamourRenderersMu.Unlock()
	if r, ok := glamourRenderers[color]; ok {
		return r
	}
	style := glamour.WithAutoStyle()
	if !color {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(DefaultBoxWidth))
	if err != nil {
		r = nil
	}
	glamourRenderers[color] = r
	return r
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when no renderer is available.
func RenderMarkdown(md string) string {
	r := getGlamourRenderer(HasColorSupport())
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
