package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
)

// mapConfig is an in-memory config store for wiring tests.
type mapConfig struct {
	data map[string]any
}

func (c *mapConfig) Get(key string) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *mapConfig) GetString(key string) string {
	if v, ok := c.data[key].(string); ok {
		return v
	}
	return ""
}

func (c *mapConfig) GetInt(key string) int {
	if v, ok := c.data[key].(int); ok {
		return v
	}
	return 0
}

func (c *mapConfig) GetFloat(key string) float64 {
	if v, ok := c.data[key].(float64); ok {
		return v
	}
	return 0
}

func (c *mapConfig) GetBool(key string) bool {
	if v, ok := c.data[key].(bool); ok {
		return v
	}
	return false
}

func (c *mapConfig) Set(key string, value any) error {
	c.data[key] = value
	return nil
}

func (c *mapConfig) Save() error { return nil }
func (c *mapConfig) Load() error { return nil }
func (c *mapConfig) Path() string {
	return "in-memory"
}

func TestBuildSplitter_ZeroOverlapIsRespected(t *testing.T) {
	cfg := &mapConfig{data: map[string]any{
		"chunking.max_chars": 10,
		"chunking.overlap":   0,
	}}

	splitter := buildSplitter(cfg)
	assert.Equal(t, 0, splitter.Overlap())

	// With zero overlap, no character appears in two chunks
	doc := domain.Document{
		Source:  "notes.txt",
		Content: strings.Repeat("a", 10) + strings.Repeat("b", 10),
	}
	chunks := splitter.Split(doc)

	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("a", 10), chunks[0].Content)
	assert.Equal(t, strings.Repeat("b", 10), chunks[1].Content)
}

func TestBuildSplitter_UnsetOverlapUsesDefault(t *testing.T) {
	cfg := &mapConfig{data: map[string]any{
		"chunking.max_chars": 12,
	}}

	splitter := buildSplitter(cfg)

	doc := domain.Document{
		Source:  "notes.txt",
		Content: strings.Repeat("a", 12) + strings.Repeat("b", 12),
	}
	chunks := splitter.Split(doc)

	// Default overlap (clamped to a quarter of max) carries trailing
	// characters of one chunk into the next
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Contains(t, chunks[1].Content, "a")
}

func TestAssistantOptions_FromConfig(t *testing.T) {
	cfg := &mapConfig{data: map[string]any{
		"chat.top_k":      7,
		"chat.max_tokens": 512,
	}}

	opts := assistantOptions(cfg)

	assert.Len(t, opts, 2)
}
