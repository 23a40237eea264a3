// Package memory provides an in-memory vector index with brute-force
// cosine similarity retrieval, plus file-based persistence.
package memory

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index holds chunk embeddings in memory and retrieves by exhaustive
// cosine similarity scan. Suitable for corpora up to a few tens of
// thousands of chunks.
type Index struct {
	mu         sync.RWMutex
	dimensions int
	chunks     []domain.Chunk
}

// NewIndex creates an empty index for vectors of the given dimension.
func NewIndex(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive", domain.ErrInvalidInput)
	}
	return &Index{dimensions: dimensions}, nil
}

// Add inserts chunks that already carry their embeddings.
func (idx *Index) Add(chunks []domain.Chunk) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, c := range chunks {
		if len(c.Embedding) != idx.dimensions {
			return fmt.Errorf("%w: chunk %s has %d dimensions, index expects %d",
				domain.ErrDimensionMismatch, c.ID, len(c.Embedding), idx.dimensions)
		}
	}

	idx.chunks = append(idx.chunks, chunks...)
	return nil
}

// Retrieve returns the k most similar entries, best-first.
// Ties keep insertion order. An empty index returns an empty slice.
func (idx *Index) Retrieve(query []float32, k int) ([]domain.RetrievedChunk, error) {
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrDimensionMismatch, len(query), idx.dimensions)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if k <= 0 || len(idx.chunks) == 0 {
		return []domain.RetrievedChunk{}, nil
	}

	scored := make([]domain.RetrievedChunk, 0, len(idx.chunks))
	for _, c := range idx.chunks {
		scored = append(scored, domain.RetrievedChunk{
			Chunk:      c,
			Similarity: cosineSimilarity(query, c.Embedding),
		})
	}

	// Stable sort keeps insertion order on equal scores
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Entries returns all chunks in insertion order.
func (idx *Index) Entries() []domain.Chunk {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.chunks
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// Dimensions returns the embedding dimension.
func (idx *Index) Dimensions() int {
	return idx.dimensions
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Zero-magnitude vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
