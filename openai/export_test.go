package openai

import (
	"errors"
	"io"

	"github.com/fwojciec/assistant"
)

// Tokenize runs the tokenizer over r and returns every payload it yields.
// sentinel reports whether input ended at the [DONE] sentinel.
func Tokenize(r io.Reader) (payloads []string, sentinel bool, err error) {
	tok := newTokenizer(r)
	for {
		p, err := tok.next()
		switch {
		case errors.Is(err, errDone):
			return payloads, true, nil
		case errors.Is(err, io.EOF):
			return payloads, false, nil
		case err != nil:
			return payloads, false, err
		}
		payloads = append(payloads, string(p))
	}
}

// Classify exports classify for testing, returning the frame kind by name.
func Classify(payload string) (kind, object string, err error) {
	f, err := classify([]byte(payload))
	if err != nil {
		return "", "", err
	}
	return f.kind.String(), f.object, nil
}

// DecodeMessageDelta exports decodeMessageDelta for testing.
func DecodeMessageDelta(payload string) (assistant.MessageDelta, error) {
	return decodeMessageDelta([]byte(payload))
}

// DecodeRunStepDelta exports decodeRunStepDelta for testing.
func DecodeRunStepDelta(payload string) (assistant.RunStepDelta, error) {
	return decodeRunStepDelta([]byte(payload))
}

// DecodeRun exports decodeRun for testing.
func DecodeRun(payload string) (assistant.Run, error) {
	return decodeRun([]byte(payload))
}
