package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmspace/whatsapp-assistant/internal/chunker"
	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driving"
	vectormem "github.com/llmspace/whatsapp-assistant/internal/vectorindex/memory"
)

// countingLoader records how often Load is invoked.
type countingLoader struct {
	docs  []domain.Document
	err   error
	calls int
}

func (l *countingLoader) Load(_ context.Context) ([]domain.Document, error) {
	l.calls++
	return l.docs, l.err
}

// stubEmbedder produces deterministic three-dimensional vectors.
type stubEmbedder struct {
	err error
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return embedText(text), nil
}

func (e *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = embedText(t)
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int              { return 3 }
func (e *stubEmbedder) ModelName() string            { return "stub-embed" }
func (e *stubEmbedder) Ping(_ context.Context) error { return nil }
func (e *stubEmbedder) Close() error                 { return nil }

// embedText maps text onto a crude but deterministic direction: texts
// sharing a keyword land near each other.
func embedText(text string) []float32 {
	v := []float32{1, 0, 0}
	for i := 0; i < len(text); i++ {
		switch i % 3 {
		case 0:
			v[0] += float32(text[i]) / 255
		case 1:
			v[1] += float32(text[i]) / 255
		case 2:
			v[2] += float32(text[i]) / 255
		}
	}
	return v
}

func indexFactory(dims int) (driven.VectorIndex, error) {
	return vectormem.NewIndex(dims)
}

func newTestIndexer(t *testing.T, loader driven.CorpusLoader, embedder driven.EmbeddingService) (*IndexerService, driven.IndexStore) {
	t.Helper()

	dir, err := os.MkdirTemp("", "indexer-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	store := vectormem.NewFileStore(filepath.Join(dir, "corpus.index"))
	svc := NewIndexerService(loader, chunker.New(), embedder, store, indexFactory)
	return svc, store
}

func TestEnsureReady_BuildsFromCorpus(t *testing.T) {
	loader := &countingLoader{docs: []domain.Document{
		{Source: "facts.txt", Format: "text", Content: "Paris is the capital of France."},
	}}
	svc, store := newTestIndexer(t, loader, &stubEmbedder{})

	require.NoError(t, svc.EnsureReady(context.Background()))

	assert.Equal(t, driving.StateReady, svc.State())
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, 1, svc.Index().Len())
	assert.True(t, store.Exists(), "index should be persisted after build")
}

func TestEnsureReady_Idempotent(t *testing.T) {
	loader := &countingLoader{docs: []domain.Document{
		{Source: "facts.txt", Content: "Some fact."},
	}}
	svc, _ := newTestIndexer(t, loader, &stubEmbedder{})

	require.NoError(t, svc.EnsureReady(context.Background()))
	require.NoError(t, svc.EnsureReady(context.Background()))

	assert.Equal(t, 1, loader.calls)
}

func TestEnsureReady_PersistedIndexSkipsCorpus(t *testing.T) {
	embedder := &stubEmbedder{}

	// First service builds and persists
	first := &countingLoader{docs: []domain.Document{
		{Source: "facts.txt", Content: "Paris is the capital of France."},
	}}
	dir, err := os.MkdirTemp("", "indexer-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	store := vectormem.NewFileStore(filepath.Join(dir, "corpus.index"))
	svc := NewIndexerService(first, chunker.New(), embedder, store, indexFactory)
	require.NoError(t, svc.EnsureReady(context.Background()))
	require.Equal(t, 1, first.calls)

	// Second service finds the persisted index and never touches the corpus
	second := &countingLoader{docs: []domain.Document{
		{Source: "facts.txt", Content: "Changed on disk."},
	}}
	svc2 := NewIndexerService(second, chunker.New(), embedder, store, indexFactory)
	require.NoError(t, svc2.EnsureReady(context.Background()))

	assert.Equal(t, 0, second.calls, "corpus loader must not run when a persisted index exists")
	assert.Equal(t, driving.StateReady, svc2.State())
	assert.Equal(t, 1, svc2.Index().Len())
}

func TestEnsureReady_CorruptIndexIsFatal(t *testing.T) {
	embedder := &stubEmbedder{}
	loader := &countingLoader{docs: []domain.Document{
		{Source: "facts.txt", Content: "Fresh content."},
	}}

	dir, err := os.MkdirTemp("", "indexer-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "corpus.index")
	require.NoError(t, os.WriteFile(path, []byte("not an index"), 0o644))

	store := vectormem.NewFileStore(path)
	svc := NewIndexerService(loader, chunker.New(), embedder, store, indexFactory)

	err = svc.EnsureReady(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
	assert.Equal(t, driving.StateIndexingFailed, svc.State())
	assert.Equal(t, 0, loader.calls, "a corrupt index must not be silently rebuilt")

	// The unreadable file stays on disk for inspection
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("not an index"), data)
}

func TestEnsureReady_DimensionMismatchIsFatal(t *testing.T) {
	dir, err := os.MkdirTemp("", "indexer-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "corpus.index")
	store := vectormem.NewFileStore(path)

	// Persist a two-dimensional index behind the embedder's back
	idx, err := vectormem.NewIndex(2)
	require.NoError(t, err)
	require.NoError(t, idx.Add([]domain.Chunk{{ID: "a:0", Source: "a", Content: "x", Embedding: []float32{1, 0}}}))
	require.NoError(t, store.Save(idx))

	loader := &countingLoader{}
	svc := NewIndexerService(loader, chunker.New(), &stubEmbedder{}, store, indexFactory)

	err = svc.EnsureReady(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, driving.StateIndexingFailed, svc.State())
	assert.Equal(t, 0, loader.calls)
}

func TestRebuild_RecoversFromCorruptIndex(t *testing.T) {
	embedder := &stubEmbedder{}
	loader := &countingLoader{docs: []domain.Document{
		{Source: "facts.txt", Content: "Fresh content."},
	}}

	dir, err := os.MkdirTemp("", "indexer-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "corpus.index")
	require.NoError(t, os.WriteFile(path, []byte("not an index"), 0o644))

	store := vectormem.NewFileStore(path)
	svc := NewIndexerService(loader, chunker.New(), embedder, store, indexFactory)
	require.Error(t, svc.EnsureReady(context.Background()))

	// An explicit rebuild is the operator's recovery path
	require.NoError(t, svc.Rebuild(context.Background()))
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, driving.StateReady, svc.State())
	assert.Equal(t, 1, svc.Index().Len())
}

func TestEnsureReady_EmbedFailureIsSticky(t *testing.T) {
	loader := &countingLoader{docs: []domain.Document{
		{Source: "facts.txt", Content: "Some fact."},
	}}
	svc, _ := newTestIndexer(t, loader, &stubEmbedder{err: assert.AnError})

	err := svc.EnsureReady(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.Equal(t, driving.StateIndexingFailed, svc.State())

	err = svc.EnsureReady(context.Background())
	assert.ErrorIs(t, err, domain.ErrIndexingFailed)
	assert.Equal(t, 1, loader.calls, "failed state must not retry on its own")
}

func TestEnsureReady_EmptyCorpus(t *testing.T) {
	loader := &countingLoader{}
	svc, _ := newTestIndexer(t, loader, &stubEmbedder{})

	require.NoError(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, driving.StateReady, svc.State())
	assert.Equal(t, 0, svc.Index().Len())
}

func TestEnsureReady_PartialLoadStillBuilds(t *testing.T) {
	loader := &countingLoader{
		docs: []domain.Document{{Source: "ok.txt", Content: "Usable."}},
		err:  domain.ErrPartialLoad,
	}
	svc, _ := newTestIndexer(t, loader, &stubEmbedder{})

	require.NoError(t, svc.EnsureReady(context.Background()))
	assert.Equal(t, driving.StateReady, svc.State())
	assert.Equal(t, 1, svc.Index().Len())
}

func TestRebuild_ReplacesPersistedIndex(t *testing.T) {
	embedder := &stubEmbedder{}
	loader := &countingLoader{docs: []domain.Document{
		{Source: "facts.txt", Content: "Version one."},
	}}
	svc, _ := newTestIndexer(t, loader, embedder)

	require.NoError(t, svc.EnsureReady(context.Background()))
	require.Equal(t, 1, loader.calls)

	loader.docs = []domain.Document{
		{Source: "facts.txt", Content: "Version two."},
		{Source: "more.txt", Content: "Extra document."},
	}
	require.NoError(t, svc.Rebuild(context.Background()))

	assert.Equal(t, 2, loader.calls)
	assert.Equal(t, 2, svc.Index().Len())
}
