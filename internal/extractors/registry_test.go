package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/csv"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/docx"
	"github.com/llmspace/whatsapp-assistant/internal/extractors/plaintext"
)

func TestRegistry_ForPath(t *testing.T) {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(csv.New())

	e, err := r.ForPath("/corpus/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "text", e.Format())

	e, err = r.ForPath("/corpus/data.CSV")
	require.NoError(t, err)
	assert.Equal(t, "csv", e.Format())
}

func TestRegistry_ForPath_Unsupported(t *testing.T) {
	r := NewRegistry()
	r.Register(plaintext.New())

	_, err := r.ForPath("/corpus/image.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_Has(t *testing.T) {
	r := NewRegistry()
	r.Register(docx.New())

	assert.True(t, r.Has(".docx"))
	assert.True(t, r.Has(".DOCX"))
	assert.False(t, r.Has(".pdf"))
}

func TestRegistry_Supported(t *testing.T) {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(csv.New())
	r.Register(docx.New())

	assert.Equal(t, []string{".csv", ".docx", ".txt"}, r.Supported())
}
