package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
)

func newTestPromptStore(t *testing.T) *PromptStore {
	t.Helper()

	dir, err := os.MkdirTemp("", "prompts-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := NewPromptStore(filepath.Join(dir, "prompts"))
	require.NoError(t, err)
	return store
}

func TestNewPromptStore_NoIOInConstructor(t *testing.T) {
	dir, err := os.MkdirTemp("", "prompts-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	promptDir := filepath.Join(dir, "prompts")
	_, err = NewPromptStore(promptDir)
	require.NoError(t, err)

	assert.NoDirExists(t, promptDir, "constructor must not create the directory")
}

func TestLoad_CreatesDefaultFiles(t *testing.T) {
	store := newTestPromptStore(t)

	prompt, err := store.Load(driven.PromptPersona)
	require.NoError(t, err)
	assert.Contains(t, prompt, "context")

	assert.FileExists(t, filepath.Join(store.Dir(), driven.PromptPersona+".txt"))
}

func TestLoad_CustomFileWins(t *testing.T) {
	store := newTestPromptStore(t)

	// Initialise defaults, then customise
	_, err := store.Load(driven.PromptPersona)
	require.NoError(t, err)

	custom := "You are a pirate. Answer in pirate speak."
	path := filepath.Join(store.Dir(), driven.PromptPersona+".txt")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))
	store.Reload()

	prompt, err := store.Load(driven.PromptPersona)
	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestLoad_UnknownPrompt(t *testing.T) {
	store := newTestPromptStore(t)

	_, err := store.Load("no-such-prompt")
	assert.Error(t, err)
}

func TestLoad_Cached(t *testing.T) {
	store := newTestPromptStore(t)

	first, err := store.Load(driven.PromptPersona)
	require.NoError(t, err)

	// Changing the file without Reload returns the cached copy
	path := filepath.Join(store.Dir(), driven.PromptPersona+".txt")
	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o600))

	second, err := store.Load(driven.PromptPersona)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
