package assistant

import "fmt"

// Validate checks constraints on RunParams the service would otherwise
// reject after a round trip.
func (p RunParams) Validate() error {
	if p.AssistantID == "" {
		return fmt.Errorf("assistant_id is required: %w", ErrValidation)
	}
	if p.Temperature != nil {
		if *p.Temperature < 0 || *p.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *p.Temperature, ErrValidation)
		}
	}
	if p.TopP != nil {
		if *p.TopP < 0 || *p.TopP > 1 {
			return fmt.Errorf("top_p must be in [0, 1], got %g: %w", *p.TopP, ErrValidation)
		}
	}
	if p.MaxPromptTokens < 0 {
		return fmt.Errorf("max_prompt_tokens must be non-negative, got %d: %w", p.MaxPromptTokens, ErrValidation)
	}
	if p.MaxCompletionTokens < 0 {
		return fmt.Errorf("max_completion_tokens must be non-negative, got %d: %w", p.MaxCompletionTokens, ErrValidation)
	}
	return nil
}

// Validate checks ListParams. A zero Limit means DefaultListLimit.
func (p ListParams) Validate() error {
	if p.Limit < 0 || p.Limit > 100 {
		return fmt.Errorf("limit must be in [0, 100], got %d: %w", p.Limit, ErrValidation)
	}
	switch p.Order {
	case "", OrderAsc, OrderDesc:
	default:
		return fmt.Errorf("unknown order %q: %w", p.Order, ErrValidation)
	}
	return nil
}

// Validate checks that a message can be posted to a thread.
func (p MessageParams) Validate() error {
	switch p.Role {
	case RoleUser, RoleAssistant:
	default:
		return fmt.Errorf("unknown role %q: %w", p.Role, ErrValidation)
	}
	if p.Content == "" {
		return fmt.Errorf("message content is empty: %w", ErrValidation)
	}
	return nil
}

// ValidateToolOutputs checks that outputs answer exactly the tool calls of
// action, each once.
func ValidateToolOutputs(action RequiredAction, outputs []ToolOutput) error {
	want := make(map[string]bool, len(action.ToolCalls))
	for _, tc := range action.ToolCalls {
		want[tc.ID] = true
	}
	seen := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		if !want[o.ToolCallID] {
			return fmt.Errorf("output for unknown tool call %q: %w", o.ToolCallID, ErrValidation)
		}
		if seen[o.ToolCallID] {
			return fmt.Errorf("duplicate output for tool call %q: %w", o.ToolCallID, ErrValidation)
		}
		seen[o.ToolCallID] = true
	}
	if len(seen) != len(want) {
		return fmt.Errorf("%d of %d tool calls answered: %w", len(seen), len(want), ErrValidation)
	}
	return nil
}
