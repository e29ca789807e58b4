package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePromptFromString(t *testing.T) {
	pm := NewPromptManager("", "Answer {{.Question}} using {{.Context}} in {{.Language}}")

	prompt, err := pm.CreatePrompt("the context", "the question", "Turkish")
	require.NoError(t, err)
	assert.Equal(t, "Answer the question using the context in Turkish", prompt)
}

func TestCreatePromptFromDefaultFile(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, EnsureDefaultPrompt(configDir))

	pm := NewPromptManager(configDir, "")
	prompt, err := pm.CreatePrompt("transcript text", "what is this about?", "Turkish")
	require.NoError(t, err)
	assert.Contains(t, prompt, "transcript text")
	assert.Contains(t, prompt, "what is this about?")
	assert.Contains(t, prompt, "Turkish")
}

func TestCreatePromptFromCustomFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.txt")
	require.NoError(t, os.WriteFile(path, []byte("Q={{.Question}}"), 0644))

	pm := NewPromptManager(dir, path)
	prompt, err := pm.CreatePrompt("ctx", "why?", "English")
	require.NoError(t, err)
	assert.Equal(t, "Q=why?", prompt)
}

func TestCreatePromptMissingFile(t *testing.T) {
	pm := NewPromptManager(t.TempDir(), "")

	_, err := pm.CreatePrompt("ctx", "q", "English")
	assert.Error(t, err)
}

func TestIsLikelyFilePath(t *testing.T) {
	assert.True(t, IsLikelyFilePath("/etc/prompt.txt"))
	assert.True(t, IsLikelyFilePath("prompt.txt"))
	assert.False(t, IsLikelyFilePath("Summarize this transcript"))
	assert.False(t, IsLikelyFilePath("tldr: {{.Context}}"))
}
