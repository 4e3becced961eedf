package assistant_test

import (
	"testing"

	"github.com/fwojciec/assistant"
	"github.com/stretchr/testify/assert"
)

func TestRunEvent_MapsEveryStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status assistant.RunStatus
		want   assistant.Event
	}{
		{assistant.RunStatusQueued, assistant.EventRunQueued{}},
		{assistant.RunStatusInProgress, assistant.EventRunInProgress{}},
		{assistant.RunStatusRequiresAction, assistant.EventRunRequiresAction{}},
		{assistant.RunStatusCancelling, assistant.EventRunCancelling{}},
		{assistant.RunStatusCancelled, assistant.EventRunCancelled{}},
		{assistant.RunStatusFailed, assistant.EventRunFailed{}},
		{assistant.RunStatusCompleted, assistant.EventRunCompleted{}},
		{assistant.RunStatusExpired, assistant.EventRunExpired{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			run := assistant.Run{ID: "run_1", ThreadID: "thread_1", AssistantID: "asst_1", Status: tt.status}

			evt, ok := assistant.RunEvent(run)

			assert.True(t, ok)
			assert.IsType(t, tt.want, evt)
			got, ok := assistant.RunOf(evt)
			assert.True(t, ok)
			assert.Equal(t, run, got)
		})
	}
}

func TestRunEvent_UnknownStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []assistant.RunStatus{"", "paused", "COMPLETED"} {
		evt, ok := assistant.RunEvent(assistant.Run{Status: status})
		assert.False(t, ok, "status %q", status)
		assert.Nil(t, evt)
	}
}

func TestRunEvent_SameStatusSameVariant(t *testing.T) {
	t.Parallel()

	a, _ := assistant.RunEvent(assistant.Run{ID: "run_a", Status: assistant.RunStatusFailed})
	b, _ := assistant.RunEvent(assistant.Run{ID: "run_b", Status: assistant.RunStatusFailed})
	assert.IsType(t, a, b)
}

func TestRunStatus_Terminal(t *testing.T) {
	t.Parallel()

	terminal := map[assistant.RunStatus]bool{
		assistant.RunStatusQueued:         false,
		assistant.RunStatusInProgress:     false,
		assistant.RunStatusRequiresAction: false,
		assistant.RunStatusCancelling:     false,
		assistant.RunStatusCancelled:      true,
		assistant.RunStatusFailed:         true,
		assistant.RunStatusCompleted:      true,
		assistant.RunStatusExpired:        true,
	}
	for status, want := range terminal {
		assert.Equal(t, want, status.Terminal(), "status %q", status)
	}
}

func TestRunOf_NonRunEvents(t *testing.T) {
	t.Parallel()

	for _, evt := range []assistant.Event{
		assistant.EventMessageDelta{},
		assistant.EventRunStepDelta{},
		assistant.EventThreadCreated{},
		assistant.EventRunStep{},
		assistant.EventMessage{},
		assistant.EventError{},
		assistant.EventDone{},
	} {
		_, ok := assistant.RunOf(evt)
		assert.False(t, ok, "%T", evt)
	}
}

func TestEventTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	events := []assistant.Event{
		assistant.EventMessageDelta{},
		assistant.EventRunStepDelta{},
		assistant.EventRunQueued{},
		assistant.EventRunInProgress{},
		assistant.EventRunRequiresAction{},
		assistant.EventRunCancelling{},
		assistant.EventRunCancelled{},
		assistant.EventRunFailed{},
		assistant.EventRunCompleted{},
		assistant.EventRunExpired{},
		assistant.EventThreadCreated{},
		assistant.EventRunStep{},
		assistant.EventMessage{},
		assistant.EventError{},
		assistant.EventDone{},
	}
	assert.Len(t, events, 15, "update slice and switch when adding new Event types")
	for _, e := range events {
		switch e.(type) {
		case assistant.EventMessageDelta:
		case assistant.EventRunStepDelta:
		case assistant.EventRunQueued:
		case assistant.EventRunInProgress:
		case assistant.EventRunRequiresAction:
		case assistant.EventRunCancelling:
		case assistant.EventRunCancelled:
		case assistant.EventRunFailed:
		case assistant.EventRunCompleted:
		case assistant.EventRunExpired:
		case assistant.EventThreadCreated:
		case assistant.EventRunStep:
		case assistant.EventMessage:
		case assistant.EventError:
		case assistant.EventDone:
		default:
			t.Fatalf("unexpected event type: %T", e)
		}
	}
}

func TestRunError_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "rate_limit_exceeded: slow down", assistant.RunError{Code: "rate_limit_exceeded", Message: "slow down"}.String())
	assert.Equal(t, "boom", assistant.RunError{Message: "boom"}.String())
}
