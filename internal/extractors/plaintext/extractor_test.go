package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
)

func TestExtensions(t *testing.T) {
	e := New()
	assert.Equal(t, []string{".txt"}, e.Extensions())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "text", New().Format())
}

func TestExtract(t *testing.T) {
	e := New()

	text, err := e.Extract(context.Background(), "notes.txt", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtract_NilContent(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "notes.txt", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
