package domain

import "time"

// ConversationTurn is one completed question/answer exchange.
// Turns are append-only: a turn is recorded only after an answer was
// successfully generated, so memory never contains failed exchanges.
type ConversationTurn struct {
	// ID is the unique identifier for the turn.
	ID string

	// Question is the user's question text.
	Question string

	// Answer is the generated answer text.
	Answer string

	// AskedAt orders turns chronologically.
	AskedAt time.Time

	// Metadata contains arbitrary key-value pairs (e.g. the transport
	// the question arrived on).
	Metadata map[string]any
}
