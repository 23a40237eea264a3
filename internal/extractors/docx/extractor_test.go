package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmspace/whatsapp-assistant/internal/core/domain"
)

// buildDocx creates a minimal DOCX archive in memory.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	content := buildDocx(t, `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>First paragraph.</t></r></p>
    <p><r><t>Second </t></r><r><t>paragraph.</t></r></p>
  </body>
</document>`)

	e := New()
	text, err := e.Extract(context.Background(), "report.docx", content)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", text)
}

func TestExtract_NotAZip(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "broken.docx", []byte("not a zip"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := New()
	text, err := e.Extract(context.Background(), "odd.docx", buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_NilContent(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), "x.docx", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
