package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
	assert.IsType(t, &Extractor{}, e)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".pdf"}, New().Extensions())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "pdf", New().Format())
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestNewWithRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("text"), err: nil}
	e := NewWithRunner(runner)
	require.NotNil(t, e)
	assert.Equal(t, runner, e.runner)
}

// Runner tests need pdftotext in PATH because availability is checked
// before the runner is invoked.
func TestExtract_WithMockRunner(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping mock runner test")
	}

	runner := &mockRunner{output: []byte("PDF body text.\n"), err: nil}
	e := NewWithRunner(runner)

	text, err := e.Extract(context.Background(), "/docs/report.pdf", []byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, "PDF body text.\n", text)
}

func TestExtract_RunnerError(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping runner error test")
	}

	runner := &mockRunner{output: nil, err: errors.New("pdftotext crashed")}
	e := NewWithRunner(runner)

	_, err := e.Extract(context.Background(), "/docs/report.pdf", []byte("%PDF-1.4 fake"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
}
