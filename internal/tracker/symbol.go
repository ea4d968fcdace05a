package tracker

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/specify/internal/constants"
)

// Symbol is the glyph and color drawn for a step status.
type Symbol struct {
	Glyph string
	Color lipgloss.Color
	Faint bool
}

const (
	glyphFilled = "●"
	glyphHollow = "○"
)

// SymbolFor maps a status to its symbol. No two statuses share a glyph and
// color pair. Unknown statuses draw as pending.
func SymbolFor(status constants.StepStatus) Symbol {
	switch status {
	case constants.StepDone:
		return Symbol{Glyph: glyphFilled, Color: lipgloss.Color("2")}
	case constants.StepRunning:
		return Symbol{Glyph: glyphHollow, Color: lipgloss.Color("4")}
	case constants.StepError:
		return Symbol{Glyph: glyphFilled, Color: lipgloss.Color("1")}
	case constants.StepSkipped:
		return Symbol{Glyph: glyphHollow, Color: lipgloss.Color("3")}
	case constants.StepPending:
		fallthrough
	default:
		return Symbol{Glyph: glyphHollow, Color: lipgloss.Color("2"), Faint: true}
	}
}
