package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()

	dir, err := os.MkdirTemp("", "configstore-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir, err := os.MkdirTemp("", "configstore-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	nested := filepath.Join(dir, "sub")
	store, err := NewConfigStore(nested)
	require.NoError(t, err)

	assert.DirExists(t, nested)
	assert.Equal(t, filepath.Join(nested, "config.toml"), store.Path())
}

func TestSetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set("corpus.dir", "/data/corpus"))

	val, ok := store.Get("corpus.dir")
	require.True(t, ok)
	assert.Equal(t, "/data/corpus", val)
}

func TestGetString(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("llm.provider", "openai"))
	require.NoError(t, store.Set("answer.top_k", 4))

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Empty(t, store.GetString("missing"))
	assert.Empty(t, store.GetString("answer.top_k"), "non-string returns empty")
}

func TestGetInt(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("answer.top_k", 4))

	assert.Equal(t, 4, store.GetInt("answer.top_k"))
	assert.Zero(t, store.GetInt("missing"))
}

func TestGetFloat(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("answer.temperature", 0.7))
	require.NoError(t, store.Set("answer.max_tokens", 256))

	assert.InDelta(t, 0.7, store.GetFloat("answer.temperature"), 1e-9)
	assert.InDelta(t, 256.0, store.GetFloat("answer.max_tokens"), 1e-9)
	assert.Zero(t, store.GetFloat("missing"))
}

func TestGetBool(t *testing.T) {
	store := newTestConfigStore(t)
	require.NoError(t, store.Set("verbose", true))

	assert.True(t, store.GetBool("verbose"))
	assert.False(t, store.GetBool("missing"))
}

func TestLoad_RoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "configstore-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("embedding.model", "text-embedding-3-small"))
	require.NoError(t, store.Set("answer.top_k", 6))

	// A fresh store over the same directory sees the persisted values
	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "text-embedding-3-small", reopened.GetString("embedding.model"))
	assert.Equal(t, 6, reopened.GetInt("answer.top_k"))
}

func TestLoad_FlattensNestedTables(t *testing.T) {
	dir, err := os.MkdirTemp("", "configstore-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	content := "[llm]\nprovider = \"anthropic\"\n\n[answer]\ntop_k = 8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", store.GetString("llm.provider"))
	assert.Equal(t, 8, store.GetInt("answer.top_k"))
}
