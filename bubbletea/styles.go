package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/assistant"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg    lipgloss.Style
	ToolCall   lipgloss.Style
	Citation   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	ToolCallBg lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t assistant.Theme) Styles {
	return Styles{
		UserMsg:    lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		ToolCall:   lipgloss.NewStyle().Foreground(ansiColor(t.ToolCall)),
		Citation:   lipgloss.NewStyle().Foreground(ansiColor(t.Citation)),
		Error:      lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:    lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:      lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:     lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		ToolCallBg: lipgloss.NewStyle().Background(ansiColor(t.CodeBg)).PaddingLeft(1),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
