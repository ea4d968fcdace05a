package tui

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specify/internal/errors"
)

func TestNewOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, "json"))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, "text"))
}

func TestTTYOutput_ErrorShowsAction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.Error(errors.Wrap(errors.ErrDirectoryExists, "demo"))

	s := buf.String()
	assert.Contains(t, s, "The target directory already exists.")
	assert.Contains(t, s, "demo: directory already exists")
	assert.Contains(t, s, "--here")
}

func TestTTYOutput_Messages(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.Success("Project ready.")
	out.Warning("git not found")
	out.Info("Selected AI assistant: claude")
	out.Print("tree")

	s := buf.String()
	for _, want := range []string{"Project ready.", "git not found", "Selected AI assistant: claude", "tree\n"} {
		assert.Contains(t, s, want)
	}
}

func TestJSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Success("ignored")
	out.Info("ignored")
	out.Warning("ignored")
	out.Print("ignored")
	assert.Empty(t, buf.String())

	out.Error(errors.Wrap(errors.ErrNotFound, "asset"))
	var payload map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "asset: not found", payload["error"])
	assert.Equal(t, "A required template resource was not found.", payload["message"])
	assert.NotEmpty(t, payload["action"])

	buf.Reset()
	require.NoError(t, out.JSON(map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, buf.String())
}
