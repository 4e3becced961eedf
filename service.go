package assistant

import "context"

// RunService starts and observes runs. Streaming methods return once the
// service has accepted the request; events follow on the Stream.
type RunService interface {
	CreateRunStream(ctx context.Context, threadID string, params RunParams) (Stream, error)
	SubmitToolOutputsStream(ctx context.Context, threadID, runID string, outputs []ToolOutput) (Stream, error)
	RetrieveRun(ctx context.Context, threadID, runID string) (Run, error)
	CancelRun(ctx context.Context, threadID, runID string) (Run, error)
}

// ThreadService manages threads and their messages.
type ThreadService interface {
	CreateThread(ctx context.Context, metadata map[string]string) (Thread, error)
	RetrieveThread(ctx context.Context, threadID string) (Thread, error)
	DeleteThread(ctx context.Context, threadID string) error
	CreateMessage(ctx context.Context, threadID string, params MessageParams) (Message, error)
	ListMessages(ctx context.Context, threadID string, params ListParams) ([]Message, error)
}

// Cache stores threads and messages locally. Lookups of entries never saved
// return ErrNotFound.
type Cache interface {
	SaveThreads(threads []Thread) error
	Threads() ([]Thread, error)
	DeleteThread(threadID string) error
	SaveMessages(threadID string, messages []Message) error
	Messages(threadID string) ([]Message, error)
	DeleteMessages(threadID string) error
}
