// Package assistant defines the domain types of a client for a stateful
// assistant service: threads, messages, runs, and the events observed while a
// run streams.
//
// Implementations of the transport live in subpackages (openai, json, mock).
package assistant

// Event is a sealed interface representing one observable event of a run
// stream. The unexported marker method prevents external implementations.
//
// Every stream ends with exactly one terminal event, EventDone or EventError,
// unless the consumer cancels it first.
type Event interface {
	event()
}

// EventMessageDelta carries a fragment of a message being written.
type EventMessageDelta struct {
	Delta MessageDelta
}

func (EventMessageDelta) event() {}

// EventRunStepDelta carries a fragment of a run step.
type EventRunStepDelta struct {
	Delta RunStepDelta
}

func (EventRunStepDelta) event() {}

// EventRunQueued signals the run was accepted but has not started.
type EventRunQueued struct{ Run Run }

func (EventRunQueued) event() {}

// EventRunInProgress signals the run is executing.
type EventRunInProgress struct{ Run Run }

func (EventRunInProgress) event() {}

// EventRunRequiresAction signals the run is paused waiting for tool outputs.
// Run.RequiredAction lists the calls to answer.
type EventRunRequiresAction struct{ Run Run }

func (EventRunRequiresAction) event() {}

// EventRunCancelling signals cancellation was requested.
type EventRunCancelling struct{ Run Run }

func (EventRunCancelling) event() {}

// EventRunCancelled signals the run stopped after cancellation.
type EventRunCancelled struct{ Run Run }

func (EventRunCancelled) event() {}

// EventRunFailed signals the run finished with an error; see Run.LastError.
type EventRunFailed struct{ Run Run }

func (EventRunFailed) event() {}

// EventRunCompleted signals the run finished successfully.
type EventRunCompleted struct{ Run Run }

func (EventRunCompleted) event() {}

// EventRunExpired signals the run exceeded its time budget.
type EventRunExpired struct{ Run Run }

func (EventRunExpired) event() {}

// EventThreadCreated carries a thread snapshot. Only emitted when snapshot
// events are enabled on the stream.
type EventThreadCreated struct{ Thread Thread }

func (EventThreadCreated) event() {}

// EventRunStep carries a run step snapshot. Only emitted when snapshot events
// are enabled on the stream.
type EventRunStep struct{ Step RunStep }

func (EventRunStep) event() {}

// EventMessage carries a message snapshot. Only emitted when snapshot events
// are enabled on the stream.
type EventMessage struct{ Message Message }

func (EventMessage) event() {}

// EventError is the terminal event of a stream that failed.
type EventError struct {
	Err error
}

func (EventError) event() {}

// EventDone is the terminal event of a stream that ended cleanly.
type EventDone struct{}

func (EventDone) event() {}

// RunOf returns the run carried by a run lifecycle event.
func RunOf(evt Event) (Run, bool) {
	switch e := evt.(type) {
	case EventRunQueued:
		return e.Run, true
	case EventRunInProgress:
		return e.Run, true
	case EventRunRequiresAction:
		return e.Run, true
	case EventRunCancelling:
		return e.Run, true
	case EventRunCancelled:
		return e.Run, true
	case EventRunFailed:
		return e.Run, true
	case EventRunCompleted:
		return e.Run, true
	case EventRunExpired:
		return e.Run, true
	default:
		return Run{}, false
	}
}

// Interface compliance checks.
var (
	_ Event = EventMessageDelta{}
	_ Event = EventRunStepDelta{}
	_ Event = EventRunQueued{}
	_ Event = EventRunInProgress{}
	_ Event = EventRunRequiresAction{}
	_ Event = EventRunCancelling{}
	_ Event = EventRunCancelled{}
	_ Event = EventRunFailed{}
	_ Event = EventRunCompleted{}
	_ Event = EventRunExpired{}
	_ Event = EventThreadCreated{}
	_ Event = EventRunStep{}
	_ Event = EventMessage{}
	_ Event = EventError{}
	_ Event = EventDone{}
)
