package driven

import (
	"context"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
)

// Extractor converts one file format into plain text.
// Each extractor handles specific file extensions (e.g. ".pdf", ".docx").
type Extractor interface {
	// Extensions returns the lower-case file extensions this extractor
	// handles, including the leading dot.
	Extensions() []string

	// Format returns the short tag recorded as document provenance
	// (e.g. "pdf").
	Format() string

	// Extract converts raw file content into plain text.
	Extract(ctx context.Context, path string, content []byte) (string, error)
}

// CorpusLoader discovers and extracts documents from a corpus location.
type CorpusLoader interface {
	// Load produces one Document per file with a registered extractor.
	// Individual extraction failures never abort the load: callers get
	// every document that succeeded together with an error wrapping
	// domain.ErrPartialLoad describing the rest.
	Load(ctx context.Context) ([]domain.Document, error)
}

// Chunker splits a document into retrievable units.
type Chunker interface {
	// Split produces the ordered chunk sequence for a document.
	// Empty content yields zero chunks; identical input and
	// configuration always yield an identical sequence.
	Split(doc domain.Document) []domain.Chunk
}
