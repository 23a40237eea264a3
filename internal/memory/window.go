// Package memory keeps a bounded window of recent conversation turns.
package memory

import (
	"sync"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
)

// DefaultCapacity is the default number of turns retained.
const DefaultCapacity = 20

// Window is a fixed-capacity ring buffer of conversation turns.
// When full, appending evicts the oldest turn. Safe for concurrent use.
type Window struct {
	mu    sync.Mutex
	turns []domain.ConversationTurn
	start int
	count int
}

// NewWindow creates a window retaining at most capacity turns.
// Non-positive capacities fall back to the default.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{
		turns: make([]domain.ConversationTurn, capacity),
	}
}

// Append records a turn, evicting the oldest when the window is full.
func (w *Window) Append(turn domain.ConversationTurn) {
	w.mu.Lock()
	defer w.mu.Unlock()

	pos := (w.start + w.count) % len(w.turns)
	w.turns[pos] = turn

	if w.count < len(w.turns) {
		w.count++
	} else {
		w.start = (w.start + 1) % len(w.turns)
	}
}

// Recent returns up to n turns in chronological order, oldest first.
// n larger than the current count returns everything retained.
func (w *Window) Recent(n int) []domain.ConversationTurn {
	w.mu.Lock()
	defer w.mu.Unlock()

	if n <= 0 || w.count == 0 {
		return []domain.ConversationTurn{}
	}
	if n > w.count {
		n = w.count
	}

	// Take the newest n, preserving chronological order
	result := make([]domain.ConversationTurn, 0, n)
	first := w.count - n
	for i := first; i < w.count; i++ {
		result = append(result, w.turns[(w.start+i)%len(w.turns)])
	}
	return result
}

// Len returns the number of turns currently retained.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Capacity returns the maximum number of turns retained.
func (w *Window) Capacity() int {
	return len(w.turns)
}
