package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/assistant"
	bt "github.com/fwojciec/assistant/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, run bt.AgentFunc) bt.Model {
	t.Helper()
	return initModelWithSize(t, run, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, run bt.AgentFunc, width, height int) bt.Model {
	t.Helper()
	m := bt.New(run, nil, assistant.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopAgent is a mock agent that does nothing.
func nopAgent(context.Context, string, func(assistant.Event)) error {
	return nil
}

// textEvent builds a message delta appending text to the first part of id.
func textEvent(id, text string) bt.StreamEventMsg {
	return bt.StreamEventMsg{Event: assistant.EventMessageDelta{Delta: assistant.MessageDelta{
		ID:      id,
		Content: []assistant.MessageContentDelta{assistant.TextDelta{Index: 0, Value: text}},
	}}}
}

// toolEvent builds a run step delta for one tool call fragment.
func toolEvent(stepID string, tc assistant.ToolCallDelta) bt.StreamEventMsg {
	return bt.StreamEventMsg{Event: assistant.EventRunStepDelta{Delta: assistant.RunStepDelta{
		ID:          stepID,
		StepDetails: assistant.ToolCallsDelta{ToolCalls: []assistant.ToolCallDelta{tc}},
	}}}
}
