package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specify/internal/errors"
)

// go test never attaches a terminal to stdin, so every prompt refuses to run.

func TestSelect_NonInteractive(t *testing.T) {
	t.Parallel()
	require.False(t, IsInteractive())

	_, err := Select("Choose your AI assistant", []Option{{Label: "copilot", Value: "copilot"}}, "copilot")
	require.ErrorIs(t, err, errors.ErrNonInteractiveMode)
}

func TestSelect_NoOptions(t *testing.T) {
	t.Parallel()

	_, err := Select("empty", nil, "")
	require.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestConfirm_NonInteractive(t *testing.T) {
	t.Parallel()

	ok, err := Confirm("Proceed?", true)
	require.ErrorIs(t, err, errors.ErrNonInteractiveMode)
	assert.False(t, ok)
}

func TestNewMenuConfig_Accessible(t *testing.T) {
	t.Setenv("ACCESSIBLE", "1")
	cfg := NewMenuConfig()
	assert.True(t, cfg.Accessible)
	assert.Equal(t, DefaultBoxWidth, cfg.Width)
}
