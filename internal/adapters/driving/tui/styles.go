package tui

import "github.com/charmbracelet/lipgloss"

// Styles for the chat layout.
var (
	headerStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Bold(true)
	answerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#CDD6F4"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
)
