package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driving"
	"github.com/llmspace/whatsapp-assistant/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.Indexer = (*IndexerService)(nil)

// IndexFactory creates an empty vector index for the given dimension.
// Injected so the service stays independent of the index implementation.
type IndexFactory func(dimensions int) (driven.VectorIndex, error)

// IndexerService owns the build-or-load phase of the engine.
//
// A persisted index short-circuits the corpus entirely: when the store
// reports one, the corpus loader is never invoked. Staleness is the
// accepted trade-off; a rebuild needs an explicit Rebuild call.
type IndexerService struct {
	loader   driven.CorpusLoader
	chunker  driven.Chunker
	embedder driven.EmbeddingService
	store    driven.IndexStore
	newIndex IndexFactory

	mu    sync.Mutex
	state driving.EngineState
	index driven.VectorIndex
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(
	loader driven.CorpusLoader,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.IndexStore,
	newIndex IndexFactory,
) *IndexerService {
	return &IndexerService{
		loader:   loader,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		newIndex: newIndex,
		state:    driving.StateIdle,
	}
}

// State returns the current engine state.
func (s *IndexerService) State() driving.EngineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Index returns the active vector index, or nil before the engine is
// ready.
func (s *IndexerService) Index() driven.VectorIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// EnsureReady loads the persisted index if one exists, otherwise runs
// the full build. Idempotent once ready.
func (s *IndexerService) EnsureReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == driving.StateReady {
		return nil
	}
	if s.state == driving.StateIndexingFailed {
		return domain.ErrIndexingFailed
	}

	s.state = driving.StateIndexing

	if s.store.Exists() {
		logger.Section("Index Load")
		logger.Info("Found persisted index at %s", s.store.Path())

		index, err := s.store.Load(s.embedder.Dimensions())
		if err != nil {
			// An unreadable index is fatal to startup. It stays on disk
			// untouched for inspection; Rebuild is the recovery path.
			s.state = driving.StateIndexingFailed
			logger.Warn("Persisted index unusable: %v", err)
			logger.Warn("Inspect or remove %s, then rebuild", s.store.Path())
			return fmt.Errorf("load index: %w", err)
		}

		s.index = index
		s.state = driving.StateReady
		logger.Info("Index ready: %d entries", index.Len())
		return nil
	}

	return s.buildLocked(ctx)
}

// Rebuild re-runs the full build regardless of any persisted index.
func (s *IndexerService) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = driving.StateIndexing
	return s.buildLocked(ctx)
}

// buildLocked runs load -> chunk -> embed -> persist. Caller holds mu.
func (s *IndexerService) buildLocked(ctx context.Context) error {
	logger.Section("Index Build")

	docs, err := s.loader.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrPartialLoad) {
			s.state = driving.StateIndexingFailed
			return fmt.Errorf("%w: %w", domain.ErrBuildFailed, err)
		}
		logger.Warn("Corpus loaded partially: %v", err)
	}
	logger.Info("Loaded %d documents", len(docs))

	var chunks []domain.Chunk
	for _, doc := range docs {
		chunks = append(chunks, s.chunker.Split(doc)...)
	}
	logger.Info("Split into %d chunks", len(chunks))

	index, err := s.newIndex(s.embedder.Dimensions())
	if err != nil {
		s.state = driving.StateIndexingFailed
		return fmt.Errorf("%w: %w", domain.ErrBuildFailed, err)
	}

	if len(chunks) > 0 {
		if err := s.embedChunks(ctx, chunks); err != nil {
			s.state = driving.StateIndexingFailed
			return fmt.Errorf("%w: %w", domain.ErrBuildFailed, err)
		}
		if err := index.Add(chunks); err != nil {
			s.state = driving.StateIndexingFailed
			return fmt.Errorf("%w: %w", domain.ErrBuildFailed, err)
		}
	}

	if err := s.store.Save(index); err != nil {
		// The in-memory index is intact; serve it and persist next run
		logger.Warn("Failed to persist index: %v", err)
	}

	s.index = index
	s.state = driving.StateReady
	logger.Info("Index ready: %d entries", index.Len())
	return nil
}

// embedChunks fills in embeddings for every chunk, batched.
func (s *IndexerService) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embed chunks: got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	return nil
}
