package assistant

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before the first event is published.
	StreamStateStreaming                    // Events are being published.
	StreamStateComplete                     // EventDone delivered.
	StreamStateError                        // EventError delivered.
	StreamStateClosed                       // Cancelled before a terminal event.
)

func (s StreamState) String() string {
	switch s {
	case StreamStateNew:
		return "new"
	case StreamStateStreaming:
		return "streaming"
	case StreamStateComplete:
		return "complete"
	case StreamStateError:
		return "error"
	case StreamStateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream is a live run event stream. A producer goroutine owns the connection
// and publishes events in arrival order; the consumer owns only the handle.
//
// Events returns the channel of events. The channel is closed after the
// terminal event (EventDone or EventError), or without one if the stream is
// cancelled through Close or the context passed when opening it.
//
// Next is a pull view over the same channel: EventDone is reported as
// io.EOF, EventError as its error, and a cancelled stream as Err(). Use either
// Events or Next on a given stream, not both.
//
// Err returns nil while streaming and after EventDone. After EventError it
// returns the terminal error; after cancellation it returns ErrStreamClosed
// or the context error.
//
// Close cancels the stream, closes the connection and waits for the producer
// to exit. It is safe to call more than once and after the stream ended.
type Stream interface {
	Events() <-chan Event
	Next() (Event, error)
	State() StreamState
	Err() error
	Close() error
}
