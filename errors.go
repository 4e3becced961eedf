package assistant

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates request parameters failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamClosed indicates the consumer closed the stream, or an operation
	// was attempted on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrNotFound indicates a cached thread or message list does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoToolExecutor indicates a run requested tool outputs but no executor
	// was configured.
	ErrNoToolExecutor = errors.New("run requires tool outputs but no tool executor is configured")
)

// TransportError reports a failure to reach the service or to read from the
// connection, before or during a stream.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx response, or an error object delivered inside
// a stream. Message is empty when the body carried no envelope; the error
// then reads "status code N".
type StatusError struct {
	StatusCode int // zero for in-band stream errors
	Message    string
	Type       string
	Param      string
	Code       string
}

func (e *StatusError) Error() string {
	if e.Message == "" && e.Type == "" {
		return fmt.Sprintf("status code %d", e.StatusCode)
	}
	var s string
	if e.StatusCode != 0 {
		s = fmt.Sprintf("HTTP %d: ", e.StatusCode)
	}
	if e.Type != "" {
		s += e.Type + ": "
	}
	return s + e.Message
}

// MissingFieldError reports a frame whose payload lacks a required field.
// Path locates the field in JSONPath-like form, e.g. "$.delta.content[0].type".
type MissingFieldError struct {
	Field string
	Path  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q at %s", e.Field, e.Path)
}

// DecodeError reports a frame that is not valid JSON or does not match the
// expected shape.
type DecodeError struct {
	Description string
	Err         error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "decode error: " + e.Description
	}
	return fmt.Sprintf("decode error: %s: %v", e.Description, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodePolicy selects what a stream does with a frame it cannot decode.
type DecodePolicy int

const (
	// DecodeAbort ends the stream with the decode error as its terminal event.
	DecodeAbort DecodePolicy = iota
	// DecodeSkip logs the error and continues with the next frame.
	DecodeSkip
)
