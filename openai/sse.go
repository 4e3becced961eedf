package openai

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// maxFrameSize bounds a single SSE line. Larger lines fail the stream.
const maxFrameSize = 1 << 20

var (
	dataPrefix   = []byte("data:")
	doneSentinel = []byte("[DONE]")

	// errDone is returned by the tokenizer at the end-of-stream sentinel.
	errDone = errors.New("done")
)

// tokenizer splits an SSE body into data payloads. Only "data:" lines are
// candidates; event names, ids, retry hints, comments and blank lines are
// dropped since the payload carries its own discriminator.
type tokenizer struct {
	scanner *bufio.Scanner
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	return &tokenizer{scanner: sc}
}

// next returns the next non-empty data payload. It returns errDone at the
// sentinel, io.EOF when the body ends, and the read error otherwise. The
// returned slice is owned by the caller.
func (t *tokenizer) next() ([]byte, error) {
	for t.scanner.Scan() {
		payload, ok := dataPayload(t.scanner.Bytes())
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(payload), doneSentinel) {
			return nil, errDone
		}
		if len(bytes.TrimSpace(payload)) == 0 {
			continue
		}
		return bytes.Clone(payload), nil
	}
	if err := t.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// dataPayload strips the "data:" field name and at most one following space.
func dataPayload(line []byte) ([]byte, bool) {
	if !bytes.HasPrefix(line, dataPrefix) {
		return nil, false
	}
	payload := line[len(dataPrefix):]
	if len(payload) > 0 && payload[0] == ' ' {
		payload = payload[1:]
	}
	return payload, true
}
