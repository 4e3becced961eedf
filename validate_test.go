package assistant_test

import (
	"testing"

	"github.com/fwojciec/assistant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRunParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  assistant.RunParams
		wantErr bool
	}{
		{"minimal", assistant.RunParams{AssistantID: "asst_1"}, false},
		{"all fields", assistant.RunParams{
			AssistantID:         "asst_1",
			Model:               "gpt-4o",
			Instructions:        "be brief",
			Temperature:         ptr(1.0),
			TopP:                ptr(0.5),
			MaxPromptTokens:     1000,
			MaxCompletionTokens: 500,
		}, false},
		{"missing assistant", assistant.RunParams{}, true},
		{"temperature 0", assistant.RunParams{AssistantID: "a", Temperature: ptr(0.0)}, false},
		{"temperature 2", assistant.RunParams{AssistantID: "a", Temperature: ptr(2.0)}, false},
		{"temperature negative", assistant.RunParams{AssistantID: "a", Temperature: ptr(-0.1)}, true},
		{"temperature above 2", assistant.RunParams{AssistantID: "a", Temperature: ptr(2.1)}, true},
		{"top_p above 1", assistant.RunParams{AssistantID: "a", TopP: ptr(1.5)}, true},
		{"negative prompt tokens", assistant.RunParams{AssistantID: "a", MaxPromptTokens: -1}, true},
		{"negative completion tokens", assistant.RunParams{AssistantID: "a", MaxCompletionTokens: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, assistant.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestListParams_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, assistant.ListParams{}.Validate())
	assert.NoError(t, assistant.ListParams{Limit: 100, Order: assistant.OrderDesc}.Validate())
	assert.ErrorIs(t, assistant.ListParams{Limit: 101}.Validate(), assistant.ErrValidation)
	assert.ErrorIs(t, assistant.ListParams{Limit: -1}.Validate(), assistant.ErrValidation)
	assert.ErrorIs(t, assistant.ListParams{Order: "sideways"}.Validate(), assistant.ErrValidation)
}

func TestMessageParams_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, assistant.MessageParams{Role: assistant.RoleUser, Content: "hi"}.Validate())
	assert.ErrorIs(t, assistant.MessageParams{Role: assistant.RoleUser}.Validate(), assistant.ErrValidation)
	assert.ErrorIs(t, assistant.MessageParams{Role: "system", Content: "hi"}.Validate(), assistant.ErrValidation)
}

func TestValidateToolOutputs(t *testing.T) {
	t.Parallel()

	action := assistant.RequiredAction{
		Type: "submit_tool_outputs",
		ToolCalls: []assistant.ToolCall{
			{ID: "call_1", Name: "weather"},
			{ID: "call_2", Name: "time"},
		},
	}

	t.Run("all answered", func(t *testing.T) {
		t.Parallel()
		err := assistant.ValidateToolOutputs(action, []assistant.ToolOutput{
			{ToolCallID: "call_2", Output: "noon"},
			{ToolCallID: "call_1", Output: "sunny"},
		})
		assert.NoError(t, err)
	})

	t.Run("missing output", func(t *testing.T) {
		t.Parallel()
		err := assistant.ValidateToolOutputs(action, []assistant.ToolOutput{{ToolCallID: "call_1"}})
		assert.ErrorIs(t, err, assistant.ErrValidation)
	})

	t.Run("unknown call", func(t *testing.T) {
		t.Parallel()
		err := assistant.ValidateToolOutputs(action, []assistant.ToolOutput{
			{ToolCallID: "call_1"}, {ToolCallID: "call_2"}, {ToolCallID: "call_3"},
		})
		assert.ErrorIs(t, err, assistant.ErrValidation)
	})

	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()
		err := assistant.ValidateToolOutputs(action, []assistant.ToolOutput{
			{ToolCallID: "call_1"}, {ToolCallID: "call_1"},
		})
		assert.ErrorIs(t, err, assistant.ErrValidation)
	})
}
