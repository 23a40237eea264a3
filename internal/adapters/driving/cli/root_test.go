package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driving"
)

type stubAssistant struct {
	reply     string
	questions []string
}

func (s *stubAssistant) Answer(_ context.Context, question string) string {
	s.questions = append(s.questions, question)
	return s.reply
}

type stubIndexer struct {
	state        driving.EngineState
	ensureErr    error
	rebuildErr   error
	ensureCalls  int
	rebuildCalls int
}

func (s *stubIndexer) EnsureReady(context.Context) error {
	s.ensureCalls++
	return s.ensureErr
}

func (s *stubIndexer) Rebuild(context.Context) error {
	s.rebuildCalls++
	return s.rebuildErr
}

func (s *stubIndexer) State() driving.EngineState { return s.state }

var (
	_ driving.Assistant = (*stubAssistant)(nil)
	_ driving.Indexer   = (*stubIndexer)(nil)
)

// runCommand executes the root command with the given arguments and
// returns the captured output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")

	out, err := runCommand(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "assistant version 1.2.3")
}

func TestSetVersionIgnoresEmpty(t *testing.T) {
	SetVersion("4.5.6")
	SetVersion("")

	out, err := runCommand(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "assistant version 4.5.6")
}

func TestAskCommand(t *testing.T) {
	a := &stubAssistant{reply: "The capital of France is Paris."}
	idx := &stubIndexer{state: driving.StateReady}
	SetServices(a, idx)

	out, err := runCommand(t, "ask", "What is the capital of France?")

	require.NoError(t, err)
	assert.Equal(t, 1, idx.ensureCalls)
	require.Len(t, a.questions, 1)
	assert.Equal(t, "What is the capital of France?", a.questions[0])
	assert.Contains(t, out, "Paris")
}

func TestAskCommandIndexingFailure(t *testing.T) {
	a := &stubAssistant{reply: "unused"}
	idx := &stubIndexer{ensureErr: errors.New("corpus unreadable")}
	SetServices(a, idx)

	_, err := runCommand(t, "ask", "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexing failed")
	assert.Empty(t, a.questions)
}

func TestAskCommandRequiresQuestion(t *testing.T) {
	SetServices(&stubAssistant{}, &stubIndexer{})

	_, err := runCommand(t, "ask")

	require.Error(t, err)
}

func TestIndexCommand(t *testing.T) {
	idx := &stubIndexer{state: driving.StateReady}
	SetServices(&stubAssistant{}, idx)

	out, err := runCommand(t, "index")

	require.NoError(t, err)
	assert.Equal(t, 1, idx.ensureCalls)
	assert.Equal(t, 0, idx.rebuildCalls)
	assert.Contains(t, out, "Index ready")
	assert.Contains(t, out, "ready")
}

func TestIndexCommandRebuild(t *testing.T) {
	idx := &stubIndexer{state: driving.StateReady}
	SetServices(&stubAssistant{}, idx)

	_, err := runCommand(t, "index", "--rebuild")

	require.NoError(t, err)
	assert.Equal(t, 1, idx.rebuildCalls)
	assert.Equal(t, 0, idx.ensureCalls)

	// Reset the flag so later tests see the default.
	indexRebuild = false
}

func TestIndexCommandFailure(t *testing.T) {
	idx := &stubIndexer{ensureErr: errors.New("disk full")}
	SetServices(&stubAssistant{}, idx)

	_, err := runCommand(t, "index")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestChatCommandIndexingFailure(t *testing.T) {
	a := &stubAssistant{reply: "unused"}
	idx := &stubIndexer{ensureErr: errors.New("corpus unreadable")}
	SetServices(a, idx)

	_, err := runCommand(t, "chat")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexing failed")
	assert.Empty(t, a.questions)
}
