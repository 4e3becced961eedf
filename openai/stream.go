package openai

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/assistant"
)

type streamConfig struct {
	logger    *slog.Logger
	policy    assistant.DecodePolicy
	snapshots bool
}

// stream implements [assistant.Stream]. A single producer goroutine reads
// the response body and publishes on an unbuffered channel, so at most one
// decoded event is held while the consumer is slow.
type stream struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	cfg    streamConfig

	events chan assistant.Event
	done   chan struct{}
	closed atomic.Bool
	state  atomic.Int32

	mu  sync.Mutex
	err error // terminal error or cancellation cause
}

// Interface compliance check.
var _ assistant.Stream = (*stream)(nil)

func newStream(parent context.Context, body io.ReadCloser, cfg streamConfig) *stream {
	ctx, cancel := context.WithCancel(parent)
	s := &stream{
		parent: parent,
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		events: make(chan assistant.Event),
		done:   make(chan struct{}),
	}
	go s.produce(body)
	return s
}

func (s *stream) Events() <-chan assistant.Event {
	return s.events
}

// Next returns the next non-terminal event. It returns io.EOF once the
// stream ended cleanly and the terminal error otherwise.
func (s *stream) Next() (assistant.Event, error) {
	evt, ok := <-s.events
	if !ok {
		if err := s.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	switch e := evt.(type) {
	case assistant.EventDone:
		return nil, io.EOF
	case assistant.EventError:
		return nil, e.Err
	}
	return evt, nil
}

func (s *stream) State() assistant.StreamState {
	return assistant.StreamState(s.state.Load())
}

func (s *stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close cancels the producer and waits for it to exit.
func (s *stream) Close() error {
	s.closed.Store(true)
	s.cancel()
	<-s.done
	return nil
}

func (s *stream) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *stream) produce(body io.ReadCloser) {
	defer close(s.done)
	defer close(s.events)
	defer s.cancel()
	defer body.Close()

	// A blocked read only returns once the body is closed.
	stop := context.AfterFunc(s.ctx, func() { body.Close() })
	defer stop()

	tok := newTokenizer(body)
	for {
		payload, err := tok.next()
		switch {
		case errors.Is(err, errDone), errors.Is(err, io.EOF):
			s.cfg.logger.Debug("stream finished")
			s.finish(assistant.EventDone{}, nil)
			return
		case err != nil:
			if s.ctx.Err() != nil {
				s.cancelled()
				return
			}
			if errors.Is(err, bufio.ErrTooLong) {
				s.fail(&assistant.DecodeError{Description: "frame exceeds maximum size", Err: err})
				return
			}
			s.fail(&assistant.TransportError{Err: err})
			return
		}

		evt, err := s.decode(payload)
		if err != nil {
			var status *assistant.StatusError
			if s.cfg.policy == assistant.DecodeSkip && !errors.As(err, &status) {
				s.cfg.logger.Warn("skipping undecodable frame", "error", err)
				continue
			}
			s.fail(err)
			return
		}
		if evt == nil {
			continue
		}
		if !s.publish(evt) {
			s.cancelled()
			return
		}
	}
}

// decode turns one payload into at most one event. A nil event with a nil
// error means the frame is dropped.
func (s *stream) decode(payload []byte) (assistant.Event, error) {
	f, err := classify(payload)
	if err != nil {
		return nil, err
	}
	switch f.kind {
	case frameMessageDelta:
		d, err := decodeMessageDelta(f.data)
		if err != nil {
			return nil, err
		}
		return assistant.EventMessageDelta{Delta: d}, nil
	case frameRunStepDelta:
		d, err := decodeRunStepDelta(f.data)
		if err != nil {
			return nil, err
		}
		return assistant.EventRunStepDelta{Delta: d}, nil
	case frameRun:
		run, err := decodeRun(f.data)
		if err != nil {
			return nil, err
		}
		evt, ok := assistant.RunEvent(run)
		if !ok {
			s.cfg.logger.Warn("dropping run with unknown status", "run_id", run.ID, "status", string(run.Status))
			return nil, nil
		}
		return evt, nil
	case frameError:
		return nil, decodeInBandError(f.data)
	}
	if s.cfg.snapshots {
		switch f.kind {
		case frameThread:
			t, err := decodeThread(f.data)
			if err != nil {
				return nil, err
			}
			return assistant.EventThreadCreated{Thread: t}, nil
		case frameRunStep:
			st, err := decodeRunStep(f.data)
			if err != nil {
				return nil, err
			}
			return assistant.EventRunStep{Step: st}, nil
		case frameMessage:
			m, err := decodeMessage(f.data)
			if err != nil {
				return nil, err
			}
			return assistant.EventMessage{Message: m}, nil
		}
	}
	s.cfg.logger.Debug("dropping frame", "kind", f.kind.String(), "object", f.object)
	return nil, nil
}

func (s *stream) publish(evt assistant.Event) bool {
	if s.ctx.Err() != nil {
		return false
	}
	s.state.CompareAndSwap(int32(assistant.StreamStateNew), int32(assistant.StreamStateStreaming))
	select {
	case s.events <- evt:
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *stream) fail(err error) {
	s.cfg.logger.Debug("stream failed", "error", err)
	s.finish(assistant.EventError{Err: err}, err)
}

// finish records the terminal state before publishing the terminal event so
// a consumer that received it observes the final State and Err.
func (s *stream) finish(evt assistant.Event, err error) {
	state := assistant.StreamStateComplete
	if err != nil {
		state = assistant.StreamStateError
	}
	s.setErr(err)
	s.state.Store(int32(state))
	if !s.publish(evt) {
		s.cancelled()
	}
}

func (s *stream) cancelled() {
	err := assistant.ErrStreamClosed
	if !s.closed.Load() && s.parent.Err() != nil {
		err = s.parent.Err()
	}
	s.setErr(err)
	s.state.Store(int32(assistant.StreamStateClosed))
}
