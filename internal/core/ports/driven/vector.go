package driven

import "github.com/llmspace/whatsapp-assistant/internal/core/domain"

// VectorIndex stores chunk embeddings and supports similarity retrieval.
//
// An index is built once, then read-only for the lifetime of the process:
// there is no incremental insert path after the build completes, so
// concurrent Retrieve calls are safe without external locking.
type VectorIndex interface {
	// Add inserts chunks that already carry their embeddings.
	// Every embedding must match the index dimension.
	Add(chunks []domain.Chunk) error

	// Retrieve returns the k entries most similar to the query vector,
	// best-first. Ties are broken by insertion order for determinism.
	// k larger than the entry count returns all entries; an empty index
	// returns an empty slice, never an error.
	Retrieve(query []float32, k int) ([]domain.RetrievedChunk, error)

	// Entries returns all chunks in insertion order.
	// Used by persistence; the returned slice must not be mutated.
	Entries() []domain.Chunk

	// Len returns the number of entries.
	Len() int

	// Dimensions returns the embedding dimension this index was built for.
	Dimensions() int
}

// IndexStore persists a VectorIndex to durable storage and loads it back.
//
// The presence of a persisted index is the build-vs-load decision signal:
// when Exists reports true the corpus is never re-read. Save must be atomic
// enough that a crash mid-write cannot leave a partial file that Load would
// silently accept; Load fails with domain.ErrIndexCorrupt instead.
type IndexStore interface {
	// Exists reports whether a persisted index is present.
	Exists() bool

	// Load reads the persisted index and verifies its integrity and that
	// its dimension matches expectDimensions.
	Load(expectDimensions int) (VectorIndex, error)

	// Save atomically persists the full index.
	Save(index VectorIndex) error

	// Path returns the storage location.
	Path() string
}
