package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a corpus file whose extension has
	// no registered extractor. The file is skipped with a warning, never
	// silently dropped.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrPartialLoad indicates some corpus files failed to extract.
	// The load result still contains every document that succeeded.
	ErrPartialLoad = errors.New("some documents failed to load")

	// ErrBuildFailed indicates index construction was aborted.
	// No partial index is ever persisted after a failed build.
	ErrBuildFailed = errors.New("index build failed")

	// ErrIndexCorrupt indicates the persisted index is unreadable or
	// inconsistent with the configured embedding dimension.
	ErrIndexCorrupt = errors.New("persisted index is corrupt")

	// ErrDimensionMismatch indicates a vector does not match the index
	// dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNotReady indicates a question arrived before indexing finished.
	// Callers map this to a transient "try again" reply, never an answer
	// from a partial index.
	ErrNotReady = errors.New("index not ready")

	// ErrIndexingFailed indicates the engine is stuck in a failed build
	// state and refuses queries until an operator intervenes.
	ErrIndexingFailed = errors.New("indexing failed, operator intervention required")

	// ErrLLMUnavailable indicates the generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
