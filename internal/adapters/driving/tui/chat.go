// Package tui provides the interactive chat surface following the Elm
// architecture on Bubbletea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llmspace/whatsapp-assistant/internal/core/ports/driving"
)

// exchange is one completed question/answer pair in the transcript.
type exchange struct {
	question string
	answer   string
}

// answerMsg carries a finished answer back into the update loop.
type answerMsg struct {
	question string
	answer   string
}

// corpusChangedMsg reports a document change under the corpus root.
type corpusChangedMsg struct {
	path string
}

// ChatModel is the Bubble Tea model for the chat conversation.
type ChatModel struct {
	assistant driving.Assistant
	ctx       context.Context

	// changes receives corpus change notifications, may be nil.
	changes <-chan string

	input    textinput.Model
	viewport viewport.Model

	transcript []exchange
	pending    string
	notice     string
	thinking   bool
	ready      bool
	width      int
	height     int
}

// Ensure ChatModel implements tea.Model.
var _ tea.Model = ChatModel{}

// NewChat creates the chat model. The changes channel is optional; when
// set, document changes surface as a notice in the status line.
func NewChat(ctx context.Context, assistant driving.Assistant, changes <-chan string) ChatModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your documents"
	ti.Focus()
	ti.CharLimit = 0

	return ChatModel{
		assistant: assistant,
		ctx:       ctx,
		changes:   changes,
		input:     ti,
		viewport:  viewport.New(0, 0),
	}
}

// Init starts cursor blinking and corpus change listening.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange())
}

// Update handles key, answer, and corpus events.
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}

	case answerMsg:
		m.thinking = false
		m.pending = ""
		m.transcript = append(m.transcript, exchange{question: msg.question, answer: msg.answer})
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case corpusChangedMsg:
		m.notice = "Corpus changed (" + msg.path + "), run 'assistant index --rebuild' to pick it up"
		return m, m.waitForChange()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit sends the typed question to the assistant.
func (m ChatModel) submit() (tea.Model, tea.Cmd) {
	if m.thinking {
		return m, nil
	}

	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return m, nil
	}
	if question == "exit" || question == "quit" {
		return m, tea.Quit
	}

	m.input.Reset()
	m.thinking = true
	m.pending = question
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
	return m, m.ask(question)
}

// ask runs the answer call off the update loop.
func (m ChatModel) ask(question string) tea.Cmd {
	assistant := m.assistant
	ctx := m.ctx
	return func() tea.Msg {
		return answerMsg{question: question, answer: assistant.Answer(ctx, question)}
	}
}

// waitForChange blocks on the corpus change channel until the next event.
func (m ChatModel) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		path, ok := <-changes
		if !ok {
			return nil
		}
		return corpusChangedMsg{path: path}
	}
}

// View renders the transcript, input box, and status line.
func (m ChatModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("Assistant")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.statusLine())
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *ChatModel) resize() {
	_, th := transcriptBoxStyle.GetFrameSize()
	_, ih := inputBoxStyle.GetFrameSize()
	reserved := 2 + ih + 1 // header + input frame + status
	vh := m.height - reserved - th
	if vh < 3 {
		vh = 3
	}
	vw := m.width
	if vw < 20 {
		vw = 20
	}
	m.viewport.Width = vw
	m.viewport.Height = vh
}

func (m ChatModel) renderTranscript() string {
	if len(m.transcript) == 0 && m.pending == "" {
		return "Ask me anything about your documents.\nType 'exit' or press Esc to quit."
	}

	var b strings.Builder
	for _, ex := range m.transcript {
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n")
		b.WriteString(answerStyle.Render(ex.answer))
		b.WriteString("\n\n")
	}
	if m.pending != "" {
		b.WriteString(questionStyle.Render("You: " + m.pending))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m ChatModel) statusLine() string {
	if m.thinking {
		return "Thinking..."
	}
	if m.notice != "" {
		return m.notice
	}
	return "Enter to send, Esc to quit"
}

// Run starts the chat program in the alternate screen.
func (m ChatModel) Run() error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
