package mock

import (
	"io"

	"github.com/fwojciec/assistant"
)

// Interface compliance check.
var _ assistant.Stream = (*Stream)(nil)

// Stream is a test double for assistant.Stream.
// Set the function fields for the methods you need. NextFn and EventsFn
// panic when nil to catch missing setup. StateFn, ErrFn and CloseFn are
// nil-safe (zero value and no-op) because test code commonly calls
// defer stream.Close() and these methods rarely need custom behavior.
type Stream struct {
	EventsFn func() <-chan assistant.Event
	NextFn   func() (assistant.Event, error)
	StateFn  func() assistant.StreamState
	ErrFn    func() error
	CloseFn  func() error
}

// Events delegates to EventsFn.
func (s *Stream) Events() <-chan assistant.Event {
	return s.EventsFn()
}

// Next delegates to NextFn.
func (s *Stream) Next() (assistant.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() assistant.StreamState {
	if s.StateFn == nil {
		return assistant.StreamStateNew
	}
	return s.StateFn()
}

// Err delegates to ErrFn. Returns nil when ErrFn is not set.
func (s *Stream) Err() error {
	if s.ErrFn == nil {
		return nil
	}
	return s.ErrFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Replay returns a Stream whose Next yields events in order, then io.EOF.
// An EventError in events is returned as its error and ends the replay.
func Replay(events ...assistant.Event) *Stream {
	i := 0
	var terminal error
	return &Stream{
		NextFn: func() (assistant.Event, error) {
			if terminal != nil {
				return nil, terminal
			}
			if i >= len(events) {
				return nil, io.EOF
			}
			evt := events[i]
			i++
			switch e := evt.(type) {
			case assistant.EventDone:
				i = len(events)
				return nil, io.EOF
			case assistant.EventError:
				terminal = e.Err
				return nil, e.Err
			}
			return evt, nil
		},
		ErrFn: func() error { return terminal },
	}
}
