package assistant

import (
	"context"
	"encoding/json"
)

// FunctionTool declares a function the assistant may call during a run.
// Parameters is a JSON Schema object.
type FunctionTool struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// ToolExecutor answers the function calls of a run in requires_action.
// Execute returns error for infrastructure failures; a tool-reported failure
// is a normal output the assistant gets to read.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// ToolExecutorFunc adapts a function to ToolExecutor.
type ToolExecutorFunc func(ctx context.Context, name string, args json.RawMessage) (string, error)

func (f ToolExecutorFunc) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	return f(ctx, name, args)
}
