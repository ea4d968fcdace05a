package tui

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/mrz1836/specify/internal/errors"
)

// Terminal layout constants.
const (
	// TerminalEdgeMargin is left between menu content and the terminal edge.
	TerminalEdgeMargin = 4

	// MinMenuWidth is the minimum usable width for menu content.
	MinMenuWidth = 40
)

// Option is a selectable menu entry.
type Option struct {
	// Label is the display text shown to the user.
	Label string
	// Description is optional help text appended to the label.
	Description string
	// Value is returned when this option is selected.
	Value string
}

// MenuConfig holds configuration for menu components.
type MenuConfig struct {
	// Width is the maximum width for the menu. If 0, adapts to terminal width.
	Width int
	// Accessible enables huh's accessible mode for screen readers.
	Accessible bool
}

// NewMenuConfig creates a MenuConfig. Accessible mode follows $ACCESSIBLE.
func NewMenuConfig() *MenuConfig {
	_, accessible := os.LookupEnv("ACCESSIBLE")
	return &MenuConfig{Width: DefaultBoxWidth, Accessible: accessible}
}

// IsInteractive reports whether stdin is a terminal a prompt can read from.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		if maxWidth <= 0 {
			return DefaultBoxWidth
		}
		return maxWidth
	}
	available := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < available {
		return maxWidth
	}
	if available < MinMenuWidth {
		return MinMenuWidth
	}
	return available
}

// runFormWithConfig refuses to run without a terminal so tests and pipes
// never hang on a prompt.
func runFormWithConfig(field huh.Field, cfg *MenuConfig, errorContext string) error {
	if !IsInteractive() {
		return errors.ErrNonInteractiveMode
	}
	CheckNoColor()

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(SpecifyTheme()).
		WithWidth(adaptWidth(cfg.Width)).
		WithAccessible(cfg.Accessible)

	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			return errors.ErrUserCanceled
		}
		return fmt.Errorf("%s: %w", errorContext, err)
	}
	return nil
}

// SpecifyTheme maps the semantic colors onto huh's base theme.
func SpecifyTheme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(ColorSuccess)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	return t
}

// Select presents a single-selection menu with defaultValue pre-selected.
// Returns ErrNonInteractiveMode without a terminal and ErrUserCanceled on Esc/Ctrl+C.
func Select(title string, options []Option, defaultValue string) (string, error) {
	return SelectWithConfig(title, options, defaultValue, NewMenuConfig())
}

// SelectWithConfig is Select with custom configuration.
func SelectWithConfig(title string, options []Option, defaultValue string, cfg *MenuConfig) (string, error) {
	if len(options) == 0 {
		return "", errors.Wrap(errors.ErrInvalidArgument, "menu has no options")
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		label := opt.Label
		if opt.Description != "" {
			label = opt.Label + " - " + opt.Description
		}
		huhOptions[i] = huh.NewOption(label, opt.Value)
	}

	selected := defaultValue
	field := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)

	if err := runFormWithConfig(field, cfg, "select menu failed"); err != nil {
		return "", err
	}
	return selected, nil
}

// Confirm presents a yes/no prompt.
func Confirm(message string, defaultYes bool) (bool, error) {
	confirmed := defaultYes
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := runFormWithConfig(field, NewMenuConfig(), "confirm prompt failed"); err != nil {
		return false, err
	}
	return confirmed, nil
}
