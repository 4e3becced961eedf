// Package mock provides test doubles for assistant interfaces using function
// fields.
package mock

import (
	"context"

	"github.com/fwojciec/assistant"
)

// Interface compliance checks.
var (
	_ assistant.RunService    = (*RunService)(nil)
	_ assistant.ThreadService = (*ThreadService)(nil)
)

// RunService is a test double for assistant.RunService.
// Set the function fields for the methods you need.
type RunService struct {
	CreateRunStreamFn         func(ctx context.Context, threadID string, params assistant.RunParams) (assistant.Stream, error)
	SubmitToolOutputsStreamFn func(ctx context.Context, threadID, runID string, outputs []assistant.ToolOutput) (assistant.Stream, error)
	RetrieveRunFn             func(ctx context.Context, threadID, runID string) (assistant.Run, error)
	CancelRunFn               func(ctx context.Context, threadID, runID string) (assistant.Run, error)
}

// CreateRunStream delegates to CreateRunStreamFn.
func (s *RunService) CreateRunStream(ctx context.Context, threadID string, params assistant.RunParams) (assistant.Stream, error) {
	return s.CreateRunStreamFn(ctx, threadID, params)
}

// SubmitToolOutputsStream delegates to SubmitToolOutputsStreamFn.
func (s *RunService) SubmitToolOutputsStream(ctx context.Context, threadID, runID string, outputs []assistant.ToolOutput) (assistant.Stream, error) {
	return s.SubmitToolOutputsStreamFn(ctx, threadID, runID, outputs)
}

// RetrieveRun delegates to RetrieveRunFn.
func (s *RunService) RetrieveRun(ctx context.Context, threadID, runID string) (assistant.Run, error) {
	return s.RetrieveRunFn(ctx, threadID, runID)
}

// CancelRun delegates to CancelRunFn.
func (s *RunService) CancelRun(ctx context.Context, threadID, runID string) (assistant.Run, error) {
	return s.CancelRunFn(ctx, threadID, runID)
}

// ThreadService is a test double for assistant.ThreadService.
type ThreadService struct {
	CreateThreadFn   func(ctx context.Context, metadata map[string]string) (assistant.Thread, error)
	RetrieveThreadFn func(ctx context.Context, threadID string) (assistant.Thread, error)
	DeleteThreadFn   func(ctx context.Context, threadID string) error
	CreateMessageFn  func(ctx context.Context, threadID string, params assistant.MessageParams) (assistant.Message, error)
	ListMessagesFn   func(ctx context.Context, threadID string, params assistant.ListParams) ([]assistant.Message, error)
}

// CreateThread delegates to CreateThreadFn.
func (s *ThreadService) CreateThread(ctx context.Context, metadata map[string]string) (assistant.Thread, error) {
	return s.CreateThreadFn(ctx, metadata)
}

// RetrieveThread delegates to RetrieveThreadFn.
func (s *ThreadService) RetrieveThread(ctx context.Context, threadID string) (assistant.Thread, error) {
	return s.RetrieveThreadFn(ctx, threadID)
}

// DeleteThread delegates to DeleteThreadFn.
func (s *ThreadService) DeleteThread(ctx context.Context, threadID string) error {
	return s.DeleteThreadFn(ctx, threadID)
}

// CreateMessage delegates to CreateMessageFn.
func (s *ThreadService) CreateMessage(ctx context.Context, threadID string, params assistant.MessageParams) (assistant.Message, error) {
	return s.CreateMessageFn(ctx, threadID, params)
}

// ListMessages delegates to ListMessagesFn.
func (s *ThreadService) ListMessages(ctx context.Context, threadID string, params assistant.ListParams) ([]assistant.Message, error) {
	return s.ListMessagesFn(ctx, threadID, params)
}
