package openai

import (
	"github.com/fwojciec/assistant"
	"github.com/tidwall/gjson"
)

type frameKind int

const (
	frameUnrecognized frameKind = iota
	frameMessageDelta
	frameRunStepDelta
	frameRun
	frameThread
	frameRunStep
	frameMessage
	frameError
)

func (k frameKind) String() string {
	switch k {
	case frameMessageDelta:
		return "message_delta"
	case frameRunStepDelta:
		return "run_step_delta"
	case frameRun:
		return "run"
	case frameThread:
		return "thread"
	case frameRunStep:
		return "run_step"
	case frameMessage:
		return "message"
	case frameError:
		return "error"
	default:
		return "unrecognized"
	}
}

// frame is one classified data payload.
type frame struct {
	kind   frameKind
	object string
	data   []byte
}

// classify reads the discriminator of a payload without decoding it. The
// discriminator is "object", falling back to "type" when "object" is absent
// or not a string. A top-level "error" object marks an in-band service error.
func classify(payload []byte) (frame, error) {
	if !gjson.ValidBytes(payload) {
		return frame{}, &assistant.DecodeError{Description: "payload is not valid JSON"}
	}
	f := frame{data: payload}
	fields := gjson.GetManyBytes(payload, "object", "type", "error")
	if fields[2].IsObject() {
		f.kind = frameError
		return f, nil
	}
	switch {
	case fields[0].Type == gjson.String:
		f.object = fields[0].Str
	case fields[1].Type == gjson.String:
		f.object = fields[1].Str
	}
	switch f.object {
	case "thread.message.delta":
		f.kind = frameMessageDelta
	case "thread.run.step.delta":
		f.kind = frameRunStepDelta
	case "thread.run":
		f.kind = frameRun
	case "thread":
		f.kind = frameThread
	case "thread.run.step":
		f.kind = frameRunStep
	case "thread.message":
		f.kind = frameMessage
	}
	return f, nil
}
