package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driven"
	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driving"
	"github.com/llmspace/whatsapp-assistant/internal/logger"
	"github.com/llmspace/whatsapp-assistant/internal/memory"
)

// Ensure AssistantService implements the interface.
var _ driving.Assistant = (*AssistantService)(nil)

// FallbackReply is returned for any per-request failure.
const FallbackReply = "Sorry, I couldn't process your request."

// NotReadyReply is returned while the index is still building.
const NotReadyReply = "I'm still indexing the knowledge base, please try again in a moment."

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

// DefaultMaxTokens caps answer length.
const DefaultMaxTokens = 256

// DefaultTemperature is the generation temperature.
const DefaultTemperature = 0.7

// DefaultRequestTimeout bounds the embed-retrieve-generate pipeline per
// question.
const DefaultRequestTimeout = 60 * time.Second

// indexProvider exposes the active index from the indexer service.
type indexProvider interface {
	State() driving.EngineState
	Index() driven.VectorIndex
}

// AssistantService answers questions over the indexed corpus.
//
// Answer never returns an error: every failure becomes the fixed
// fallback reply, so callers at the messaging boundary always have
// something to send back.
type AssistantService struct {
	provider  indexProvider
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	prompts   driven.PromptStore
	window    *memory.Window
	turnStore driven.TurnStore // optional, may be nil

	topK        int
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

// AssistantOption configures the assistant service.
type AssistantOption func(*AssistantService)

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) AssistantOption {
	return func(s *AssistantService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithMaxTokens sets the generation token cap.
func WithMaxTokens(n int) AssistantOption {
	return func(s *AssistantService) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithTemperature sets the generation temperature.
func WithTemperature(t float64) AssistantOption {
	return func(s *AssistantService) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// WithRequestTimeout bounds each Answer call.
func WithRequestTimeout(d time.Duration) AssistantOption {
	return func(s *AssistantService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithTurnStore adds durable conversation history.
func WithTurnStore(store driven.TurnStore) AssistantOption {
	return func(s *AssistantService) {
		s.turnStore = store
	}
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(
	provider indexProvider,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	window *memory.Window,
	opts ...AssistantOption,
) *AssistantService {
	s := &AssistantService{
		provider:    provider,
		embedder:    embedder,
		llm:         llm,
		prompts:     prompts,
		window:      window,
		topK:        DefaultTopK,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		timeout:     DefaultRequestTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer responds to a question using retrieval-augmented generation.
func (s *AssistantService) Answer(ctx context.Context, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return FallbackReply
	}

	switch s.provider.State() {
	case driving.StateReady:
	case driving.StateIdle, driving.StateIndexing:
		logger.Debug("Question received before index is ready")
		return NotReadyReply
	default:
		logger.Warn("Question received while engine is unavailable")
		return FallbackReply
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.answer(ctx, question)
	if err != nil {
		logger.Warn("Answer failed: %v", err)
		return FallbackReply
	}

	s.recordTurn(ctx, question, answer)
	return answer
}

// answer runs the embed-retrieve-generate pipeline.
func (s *AssistantService) answer(ctx context.Context, question string) (string, error) {
	logger.Section("Answer")
	logger.Debug("Question: %q", question)

	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	index := s.provider.Index()
	if index == nil {
		return "", domain.ErrNotReady
	}

	retrieved, err := index.Retrieve(queryVector, s.topK)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	logger.Debug("Retrieved %d chunks", len(retrieved))

	if len(retrieved) == 0 {
		return "", fmt.Errorf("no context available for question")
	}

	messages, err := s.buildMessages(question, retrieved)
	if err != nil {
		return "", err
	}

	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("generate answer: empty response")
	}
	return answer, nil
}

// buildMessages assembles persona, retrieved context, recent turns and
// the question into a chat transcript.
func (s *AssistantService) buildMessages(question string, retrieved []domain.RetrievedChunk) ([]driven.ChatMessage, error) {
	persona, err := s.prompts.Load(driven.PromptPersona)
	if err != nil {
		return nil, fmt.Errorf("load persona prompt: %w", err)
	}

	var system strings.Builder
	system.WriteString(persona)

	if len(retrieved) > 0 {
		system.WriteString("\n\nContext:\n")
		for _, rc := range retrieved {
			system.WriteString("\n---\n")
			system.WriteString(rc.Chunk.Content)
		}
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: system.String()},
	}

	for _, turn := range s.window.Recent(s.window.Capacity()) {
		messages = append(messages,
			driven.ChatMessage{Role: "user", Content: turn.Question},
			driven.ChatMessage{Role: "assistant", Content: turn.Answer},
		)
	}

	messages = append(messages, driven.ChatMessage{Role: "user", Content: question})
	return messages, nil
}

// recordTurn appends a successful exchange to the window and, when
// configured, the durable store.
func (s *AssistantService) recordTurn(ctx context.Context, question, answer string) {
	turn := domain.ConversationTurn{
		ID:       uuid.New().String(),
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now(),
	}

	s.window.Append(turn)

	if s.turnStore != nil {
		if err := s.turnStore.Save(ctx, turn); err != nil {
			logger.Warn("Failed to persist turn: %v", err)
		}
	}
}
