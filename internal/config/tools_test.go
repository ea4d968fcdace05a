package config

import (
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/testutil"
)

// MockCommandExecutor is a test double for CommandExecutor. It is only
// written before Detect starts, so concurrent reads are safe.
type MockCommandExecutor struct {
	paths   map[string]string
	outputs map[string]string
}

func NewMockCommandExecutor() *MockCommandExecutor {
	return &MockCommandExecutor{paths: map[string]string{}, outputs: map[string]string{}}
}

func (m *MockCommandExecutor) SetLookPath(file, path string) { m.paths[file] = path }

func (m *MockCommandExecutor) SetRun(key, output string) { m.outputs[key] = output }

func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if p, ok := m.paths[file]; ok {
		return p, nil
	}
	return "", exec.ErrNotFound
}

func (m *MockCommandExecutor) Run(_ context.Context, name string, args ...string) (string, error) {
	if out, ok := m.outputs[name+" "+strings.Join(args, " ")]; ok {
		return out, nil
	}
	return "", errors.ErrCommandNotConfigured
}

func TestToolStatus_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ToolStatusInstalled)
	require.NoError(t, err)
	assert.JSONEq(t, `"installed"`, string(data))

	var s ToolStatus
	require.NoError(t, json.Unmarshal([]byte(`"installed"`), &s))
	assert.Equal(t, ToolStatusInstalled, s)
	require.NoError(t, json.Unmarshal([]byte(`"bogus"`), &s))
	assert.Equal(t, ToolStatusMissing, s)
	assert.Equal(t, "unknown", ToolStatus(9).String())
}

func TestDetect_KeepsOrderAndParsesVersions(t *testing.T) {
	t.Parallel()

	runner := NewMockCommandExecutor()
	runner.SetLookPath("git", "/usr/bin/git")
	runner.SetRun("/usr/bin/git --version", "git version 2.43.0\n")
	runner.SetLookPath("gemini", "/usr/local/bin/gemini")
	runner.SetRun("/usr/local/bin/gemini --version", "0.1.18\n")
	runner.SetLookPath("code", "/usr/bin/code")

	d := NewToolDetectorWithExecutor(runner).WithClaudeLocalPath("")
	res, err := d.Detect(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Tools, len(getToolConfigs()))
	assert.Equal(t, "git", res.Tools[0].Name)
	assert.Equal(t, "2.43.0", res.Tools[0].Version)
	assert.True(t, res.GitFound)
	assert.True(t, res.AnyAssistantFound)

	byName := map[string]Tool{}
	for _, tool := range res.Tools {
		byName[tool.Name] = tool
	}
	assert.Equal(t, "0.1.18", byName["gemini"].Version)
	assert.True(t, byName["code"].Found())
	assert.Empty(t, byName["code"].Version, "IDE launchers are not executed")
	assert.False(t, byName["claude"].Found())
	assert.Equal(t, "https://docs.anthropic.com/en/docs/claude-code/setup", byName["claude"].InstallHint)
}

func TestDetect_NothingInstalled(t *testing.T) {
	t.Parallel()

	res, err := NewToolDetectorWithExecutor(NewMockCommandExecutor()).WithClaudeLocalPath("").Detect(context.Background())
	require.NoError(t, err)
	assert.False(t, res.GitFound)
	assert.False(t, res.AnyAssistantFound)
	for _, tool := range res.Tools {
		assert.Equal(t, ToolStatusMissing, tool.Status, tool.Name)
	}
}

func TestDetect_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewToolDetectorWithExecutor(NewMockCommandExecutor()).Detect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDetectOne_ClaudeLocalInstall(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	testutil.WriteTree(t, home, map[string]string{".claude/local/claude": "#!/bin/sh\n"})
	local := filepath.Join(home, ".claude", "local", "claude")

	runner := NewMockCommandExecutor()
	runner.SetRun(local+" --version", "1.0.58 (Claude Code)\n")

	tool := NewToolDetectorWithExecutor(runner).WithClaudeLocalPath(local).DetectOne(context.Background(), "claude")
	assert.True(t, tool.Found())
	assert.Equal(t, local, tool.Path)
	assert.Equal(t, "1.0.58", tool.Version)
}

func TestDetectOne_VersionFailureIsUnknown(t *testing.T) {
	t.Parallel()

	runner := NewMockCommandExecutor()
	runner.SetLookPath("qwen", "/opt/qwen")

	tool := NewToolDetectorWithExecutor(runner).DetectOne(context.Background(), "qwen")
	assert.True(t, tool.Found())
	assert.Equal(t, "unknown", tool.Version)
	assert.Equal(t, "Qwen Code", tool.Label)
}

func TestDetectOne_UnlistedTool(t *testing.T) {
	t.Parallel()

	runner := NewMockCommandExecutor()
	runner.SetLookPath("make", "/usr/bin/make")

	tool := NewToolDetectorWithExecutor(runner).DetectOne(context.Background(), "make")
	assert.True(t, tool.Found())
	assert.Empty(t, tool.Version)
}
