package driven

import (
	"context"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
)

// TurnStore persists completed conversation turns.
// This is an optional service - when nil, conversation history lives only
// in the in-process memory window and is lost on restart.
type TurnStore interface {
	// Save stores a completed turn.
	Save(ctx context.Context, turn domain.ConversationTurn) error

	// Recent returns up to n turns in chronological order.
	// Fewer than n turns returns all of them.
	Recent(ctx context.Context, n int) ([]domain.ConversationTurn, error)

	// Close releases resources.
	Close() error
}
