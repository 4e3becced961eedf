package openai_test

import (
	"testing"

	"github.com/fwojciec/assistant"
	"github.com/fwojciec/assistant/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    string
		wantKind   string
		wantObject string
	}{
		{"message delta", `{"id":"msg_1","object":"thread.message.delta","delta":{}}`, "message_delta", "thread.message.delta"},
		{"run step delta", `{"object":"thread.run.step.delta"}`, "run_step_delta", "thread.run.step.delta"},
		{"run", `{"object":"thread.run","status":"queued"}`, "run", "thread.run"},
		{"thread", `{"object":"thread"}`, "thread", "thread"},
		{"run step", `{"object":"thread.run.step"}`, "run_step", "thread.run.step"},
		{"message", `{"object":"thread.message"}`, "message", "thread.message"},
		{"type fallback", `{"type":"thread.run"}`, "run", "thread.run"},
		{"non-string object falls back to type", `{"object":7,"type":"thread.message.delta"}`, "message_delta", "thread.message.delta"},
		{"unknown object", `{"object":"assistant"}`, "unrecognized", "assistant"},
		{"no discriminator", `{"id":"x"}`, "unrecognized", ""},
		{"not an object", `[1,2,3]`, "unrecognized", ""},
		{"in-band error", `{"error":{"message":"boom","type":"server_error"}}`, "error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kind, object, err := openai.Classify(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}

func TestClassify_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, _, err := openai.Classify(`{"object":"thread.run"`)

	var de *assistant.DecodeError
	require.ErrorAs(t, err, &de)
}
