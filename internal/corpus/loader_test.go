package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
	"github.com/llmspace/whatsapp-assistant/internal/extractors"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/csv"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/plaintext"
)

// failingExtractor always fails, for partial load tests.
type failingExtractor struct{}

func (failingExtractor) Extensions() []string { return []string{".bad"} }
func (failingExtractor) Format() string       { return "bad" }
func (failingExtractor) Extract(_ context.Context, _ string, _ []byte) (string, error) {
	return "", assert.AnError
}

func newTestRegistry() *extractors.Registry {
	r := extractors.NewRegistry()
	r.Register(plaintext.New())
	r.Register(csv.New())
	return r
}

func TestLoad(t *testing.T) {
	dir, err := os.MkdirTemp("", "corpus-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("beta"), 0o644))

	loader := NewLoader(dir, newTestRegistry())
	docs, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, doc := range docs {
		assert.Equal(t, "text", doc.Format)
		assert.NotEmpty(t, doc.Content)
		assert.WithinDuration(t, time.Now(), doc.LoadedAt, time.Minute)
	}
}

func TestLoad_CreatesMissingDirectory(t *testing.T) {
	base, err := os.MkdirTemp("", "corpus-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(base)

	root := filepath.Join(base, "data")
	loader := NewLoader(root, newTestRegistry())

	docs, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.DirExists(t, root)
}

func TestLoad_SkipsUnsupportedAndHidden(t *testing.T) {
	dir, err := os.MkdirTemp("", "corpus-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("keep"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("secret"), 0o644))

	hiddenDir := filepath.Join(dir, ".git")
	require.NoError(t, os.Mkdir(hiddenDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(hiddenDir, "config.txt"), []byte("x"), 0o644))

	loader := NewLoader(dir, newTestRegistry())
	docs, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, filepath.Join(dir, "keep.txt"), docs[0].Source)
}

func TestLoad_WalksSubdirectories(t *testing.T) {
	dir, err := os.MkdirTemp("", "corpus-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "deep.txt"), []byte("deep"), 0o644))

	loader := NewLoader(dir, newTestRegistry())
	docs, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "deep", docs[0].Content)
}

func TestLoad_PartialFailure(t *testing.T) {
	dir, err := os.MkdirTemp("", "corpus-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.txt"), []byte("fine"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.bad"), []byte("boom"), 0o644))

	registry := newTestRegistry()
	registry.Register(failingExtractor{})

	loader := NewLoader(dir, registry)
	docs, err := loader.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPartialLoad)
	require.Len(t, docs, 1)
	assert.Equal(t, "fine", docs[0].Content)
}

func TestLoad_InterfaceCompliance(t *testing.T) {
	var _ driven.CorpusLoader = (*Loader)(nil)
}
