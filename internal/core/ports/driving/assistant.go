package driving

import "context"

// EngineState describes the answer engine lifecycle.
type EngineState int

const (
	// StateIdle means the engine has not started indexing yet.
	StateIdle EngineState = iota

	// StateIndexing means a build or load is in progress.
	StateIndexing

	// StateReady means the index is loaded and queries are served.
	StateReady

	// StateIndexingFailed means the build failed; the engine refuses
	// queries until an operator intervenes.
	StateIndexingFailed
)

// String returns a human-readable state name.
func (s EngineState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateIndexing:
		return "indexing"
	case StateReady:
		return "ready"
	case StateIndexingFailed:
		return "indexing-failed"
	default:
		return "unknown"
	}
}

// Assistant is the single operation exposed to the messaging transport.
//
// Answer always returns a user-facing string and never an error: every
// per-request failure is converted into a fixed fallback reply inside
// the core, so the transport boundary never sees a raw failure.
type Assistant interface {
	// Answer responds to a question using retrieval-augmented generation.
	Answer(ctx context.Context, question string) string
}

// Indexer controls the one-time build/load phase of the engine.
type Indexer interface {
	// EnsureReady loads the persisted index if one exists, otherwise
	// runs the full load-chunk-embed-persist build. Idempotent once
	// the engine is ready.
	EnsureReady(ctx context.Context) error

	// Rebuild discards any persisted index and re-runs the full build.
	Rebuild(ctx context.Context) error

	// State returns the current engine state.
	State() EngineState
}
