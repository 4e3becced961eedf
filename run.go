package assistant

import (
	"encoding/json"
	"time"
)

// RunStatus is the lifecycle status of a Run as reported by the service.
type RunStatus string

// The closed set of run statuses. The service drives transitions:
//
//	queued -> in_progress -> requires_action -> in_progress (resubmission loop)
//	                      -> cancelling -> cancelled
//	                      -> completed | failed | expired
const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusExpired        RunStatus = "expired"
)

// Terminal reports whether no further transitions follow s.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCancelled, RunStatusFailed, RunStatusCompleted, RunStatusExpired:
		return true
	default:
		return false
	}
}

// Run is one execution of an assistant over a thread. Runs are snapshots
// produced by the service; the client never mutates them.
type Run struct {
	ID          string
	Object      string
	ThreadID    string
	AssistantID string
	Status      RunStatus

	// RequiredAction is set while Status is requires_action.
	RequiredAction *RequiredAction
	// LastError is set when Status is failed.
	LastError *RunError

	CreatedAt   *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	FailedAt    *time.Time
	ExpiresAt   *time.Time

	Model               string
	Instructions        string
	Temperature         *float64
	TopP                *float64
	MaxPromptTokens     *int
	MaxCompletionTokens *int
	Metadata            map[string]string
	Usage               *Usage
}

// RequiredAction describes what the service is waiting for. Type is
// "submit_tool_outputs" for every action the service currently emits.
type RequiredAction struct {
	Type      string
	ToolCalls []ToolCall
}

// ToolCall is a function invocation requested by a run.
type ToolCall struct {
	ID        string
	Type      string
	Name      string
	Arguments json.RawMessage
}

// RunError is the service-reported reason a run failed.
type RunError struct {
	Code    string
	Message string
}

func (e RunError) String() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// RunEvent maps a run snapshot to the lifecycle event for its status.
// It is a pure function over the eight known statuses and reports false for
// any other status; it does not validate transitions.
func RunEvent(run Run) (Event, bool) {
	switch run.Status {
	case RunStatusQueued:
		return EventRunQueued{Run: run}, true
	case RunStatusInProgress:
		return EventRunInProgress{Run: run}, true
	case RunStatusRequiresAction:
		return EventRunRequiresAction{Run: run}, true
	case RunStatusCancelling:
		return EventRunCancelling{Run: run}, true
	case RunStatusCancelled:
		return EventRunCancelled{Run: run}, true
	case RunStatusFailed:
		return EventRunFailed{Run: run}, true
	case RunStatusCompleted:
		return EventRunCompleted{Run: run}, true
	case RunStatusExpired:
		return EventRunExpired{Run: run}, true
	default:
		return nil, false
	}
}

// RunParams configures a new run. Zero values are omitted from the request so
// the assistant's own settings apply.
type RunParams struct {
	AssistantID            string
	Model                  string
	Instructions           string
	AdditionalInstructions string
	Temperature            *float64
	TopP                   *float64
	MaxPromptTokens        int
	MaxCompletionTokens    int
	Metadata               map[string]string
	// Tools overrides the assistant's tool set for this run when non-empty.
	Tools []FunctionTool
}

// ToolOutput answers one ToolCall of a run in requires_action.
type ToolOutput struct {
	ToolCallID string
	Output     string
}
