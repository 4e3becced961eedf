// Package bubbletea provides a Bubble Tea TUI for chatting with an assistant
// on one thread.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/assistant"
)

// AgentFunc posts prompt to the thread and drives the resulting run. The
// onEvent callback is called for each streaming event. The function blocks
// until the run ends or the context is cancelled.
type AgentFunc func(ctx context.Context, prompt string, onEvent func(assistant.Event)) error

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. Cancelling ctx quits the program.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// StreamEventMsg wraps a streaming event for delivery to the Bubble Tea model.
type StreamEventMsg struct {
	Event assistant.Event
}

// AgentDoneMsg signals that the agent run has completed.
type AgentDoneMsg struct {
	Err error
}
