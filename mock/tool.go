package mock

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/assistant"
)

// Interface compliance check.
var _ assistant.ToolExecutor = (*ToolExecutor)(nil)

// ToolExecutor is a test double for assistant.ToolExecutor.
// Set ExecuteFn before calling Execute.
type ToolExecutor struct {
	ExecuteFn func(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// Execute delegates to ExecuteFn.
func (e *ToolExecutor) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	return e.ExecuteFn(ctx, name, args)
}
