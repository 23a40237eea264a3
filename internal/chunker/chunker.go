// Package chunker splits extracted document text into size-bounded,
// overlapping chunks suitable for embedding and retrieval.
package chunker

import (
	"strconv"
	"strings"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Chunker = (*Splitter)(nil)

// DefaultMaxChars is the default maximum number of characters per chunk.
const DefaultMaxChars = 1000

// DefaultOverlap is the default number of overlapping characters between
// consecutive chunks.
const DefaultOverlap = 200

// Splitter splits document content into bounded chunks, preferring
// paragraph and sentence boundaries before falling back to hard cuts.
type Splitter struct {
	maxChars int
	overlap  int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxChars sets the maximum chunk size in characters.
func WithMaxChars(n int) Option {
	return func(s *Splitter) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
// Zero overlap is valid.
func WithOverlap(n int) Option {
	return func(s *Splitter) {
		if n >= 0 {
			s.overlap = n
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		maxChars: DefaultMaxChars,
		overlap:  DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for the cursor to advance
	if s.overlap >= s.maxChars {
		s.overlap = s.maxChars / 4
	}

	return s
}

// MaxChars returns the configured chunk size.
func (s *Splitter) MaxChars() int {
	return s.maxChars
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split produces the ordered chunk sequence for a document.
// Empty or whitespace-only content yields zero chunks. Chunk IDs are
// derived from the source path and position, so identical input and
// configuration always produce an identical sequence.
func (s *Splitter) Split(doc domain.Document) []domain.Chunk {
	content := doc.Content
	if strings.TrimSpace(content) == "" {
		return nil
	}

	contentLen := len(content)
	if contentLen <= s.maxChars {
		return []domain.Chunk{{
			ID:       chunkID(doc.Source, 0),
			Source:   doc.Source,
			Content:  content,
			Position: 0,
		}}
	}

	estimated := contentLen/(s.maxChars-s.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	start := 0

	for start < contentLen {
		end := start + s.maxChars
		if end >= contentLen {
			end = contentLen
		} else {
			end = s.cutPoint(content, start, end)
		}

		text := content[start:end]
		if strings.TrimSpace(text) != "" {
			chunks = append(chunks, domain.Chunk{
				ID:       chunkID(doc.Source, position),
				Source:   doc.Source,
				Content:  text,
				Position: position,
			})
			position++
		}

		if end == contentLen {
			break
		}

		// Step back by the overlap, but always make forward progress
		next := end - s.overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// cutPoint finds the best split position in content[start:limit],
// preferring a paragraph break, then a sentence end, then a word break.
// Falls back to the hard character limit.
func (s *Splitter) cutPoint(content string, start, limit int) int {
	window := content[start:limit]

	// Paragraph boundary
	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return start + i + 2
	}

	// Sentence boundary
	if i := strings.LastIndexAny(window, ".!?\n"); i > 0 {
		return start + i + 1
	}

	// Word boundary
	if i := strings.LastIndex(window, " "); i > 0 {
		return start + i + 1
	}

	return limit
}

// chunkID builds the deterministic chunk identifier.
func chunkID(source string, position int) string {
	return source + ":" + strconv.Itoa(position)
}
