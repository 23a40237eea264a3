package domain

import "time"

// Document represents a corpus file after text extraction.
// It is the canonical representation before chunking and is discarded
// once its chunks have been produced.
type Document struct {
	// Source is the original file path (provenance).
	Source string

	// Format is the extractor tag that produced this document
	// (e.g. "txt", "csv", "pdf", "docx").
	Format string

	// Content is the full plain-text content after extraction.
	Content string

	// LoadedAt is when the document was read from disk.
	LoadedAt time.Time
}

// Chunk represents a retrievable unit within a document.
// Documents are split into chunks so retrieval can return focused context.
type Chunk struct {
	// ID is the deterministic identifier for the chunk, derived from
	// its source path and position so that re-indexing an unchanged
	// corpus yields identical IDs.
	ID string

	// Source is the originating file path (provenance).
	Source string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the source document.
	Position int

	// Embedding is the vector representation for similarity search.
	Embedding []float32
}

// RetrievedChunk is a chunk returned by similarity search together
// with its score.
type RetrievedChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Similarity is the cosine similarity to the query vector (-1 to 1).
	Similarity float64
}
