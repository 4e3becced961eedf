package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/assistant"
	"github.com/fwojciec/assistant/agent"
	"github.com/fwojciec/assistant/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(status assistant.RunStatus, calls ...assistant.ToolCall) assistant.Run {
	r := assistant.Run{ID: "run_1", ThreadID: "thread_1", AssistantID: "asst_1", Status: status}
	if len(calls) > 0 {
		r.RequiredAction = &assistant.RequiredAction{Type: "submit_tool_outputs", ToolCalls: calls}
	}
	return r
}

func TestLoop_Run(t *testing.T) {
	t.Parallel()

	t.Run("completed run ends loop", func(t *testing.T) {
		t.Parallel()

		svc := &mock.RunService{
			CreateRunStreamFn: func(_ context.Context, threadID string, params assistant.RunParams) (assistant.Stream, error) {
				assert.Equal(t, "thread_1", threadID)
				assert.Equal(t, "asst_1", params.AssistantID)
				return mock.Replay(
					assistant.EventRunQueued{Run: run(assistant.RunStatusQueued)},
					assistant.EventMessageDelta{},
					assistant.EventRunCompleted{Run: run(assistant.RunStatusCompleted)},
					assistant.EventDone{},
				), nil
			},
		}
		executor := &mock.ToolExecutor{
			ExecuteFn: func(context.Context, string, json.RawMessage) (string, error) {
				t.Fatal("executor should not be called")
				return "", nil
			},
		}

		var events []assistant.Event
		got, err := agent.New(svc, executor).Run(context.Background(), "thread_1", assistant.RunParams{AssistantID: "asst_1"},
			agent.WithEventHandler(func(e assistant.Event) { events = append(events, e) }))

		require.NoError(t, err)
		assert.Equal(t, assistant.RunStatusCompleted, got.Status)
		assert.Len(t, events, 3)
	})

	t.Run("failed run is returned without error", func(t *testing.T) {
		t.Parallel()

		failed := run(assistant.RunStatusFailed)
		failed.LastError = &assistant.RunError{Code: "server_error", Message: "oops"}
		svc := &mock.RunService{
			CreateRunStreamFn: func(context.Context, string, assistant.RunParams) (assistant.Stream, error) {
				return mock.Replay(assistant.EventRunFailed{Run: failed}), nil
			},
		}

		got, err := agent.New(svc, nil).Run(context.Background(), "thread_1", assistant.RunParams{AssistantID: "asst_1"})

		require.NoError(t, err)
		assert.Equal(t, failed, got)
	})

	t.Run("requires action executes tools and resubmits", func(t *testing.T) {
		t.Parallel()

		calls := []assistant.ToolCall{
			{ID: "call_1", Type: "function", Name: "weather", Arguments: json.RawMessage(`{"city":"Oslo"}`)},
			{ID: "call_2", Type: "function", Name: "time", Arguments: json.RawMessage(`{}`)},
		}
		var submitted []assistant.ToolOutput
		svc := &mock.RunService{
			CreateRunStreamFn: func(context.Context, string, assistant.RunParams) (assistant.Stream, error) {
				return mock.Replay(
					assistant.EventRunInProgress{Run: run(assistant.RunStatusInProgress)},
					assistant.EventRunRequiresAction{Run: run(assistant.RunStatusRequiresAction, calls...)},
					assistant.EventDone{},
				), nil
			},
			SubmitToolOutputsStreamFn: func(_ context.Context, threadID, runID string, outputs []assistant.ToolOutput) (assistant.Stream, error) {
				assert.Equal(t, "thread_1", threadID)
				assert.Equal(t, "run_1", runID)
				submitted = outputs
				return mock.Replay(
					assistant.EventRunInProgress{Run: run(assistant.RunStatusInProgress)},
					assistant.EventRunCompleted{Run: run(assistant.RunStatusCompleted)},
				), nil
			},
		}
		executor := &mock.ToolExecutor{
			ExecuteFn: func(_ context.Context, name string, args json.RawMessage) (string, error) {
				switch name {
				case "weather":
					// Finish after the second call so output order is not completion order.
					time.Sleep(10 * time.Millisecond)
					return "sunny in " + string(args), nil
				default:
					return "", errors.New("clock unavailable")
				}
			},
		}

		got, err := agent.New(svc, executor).Run(context.Background(), "thread_1", assistant.RunParams{AssistantID: "asst_1"})

		require.NoError(t, err)
		assert.Equal(t, assistant.RunStatusCompleted, got.Status)
		assert.Equal(t, []assistant.ToolOutput{
			{ToolCallID: "call_1", Output: `sunny in {"city":"Oslo"}`},
			{ToolCallID: "call_2", Output: "error: clock unavailable"},
		}, submitted)
	})

	t.Run("parallelism bounds concurrent tool calls", func(t *testing.T) {
		t.Parallel()

		var calls []assistant.ToolCall
		for _, id := range []string{"a", "b", "c", "d"} {
			calls = append(calls, assistant.ToolCall{ID: id, Name: "slow"})
		}
		svc := &mock.RunService{
			CreateRunStreamFn: func(context.Context, string, assistant.RunParams) (assistant.Stream, error) {
				return mock.Replay(assistant.EventRunRequiresAction{Run: run(assistant.RunStatusRequiresAction, calls...)}), nil
			},
			SubmitToolOutputsStreamFn: func(context.Context, string, string, []assistant.ToolOutput) (assistant.Stream, error) {
				return mock.Replay(assistant.EventRunCompleted{Run: run(assistant.RunStatusCompleted)}), nil
			},
		}
		var active, peak atomic.Int32
		executor := &mock.ToolExecutor{
			ExecuteFn: func(context.Context, string, json.RawMessage) (string, error) {
				n := active.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				active.Add(-1)
				return "ok", nil
			},
		}

		_, err := agent.New(svc, executor).Run(context.Background(), "thread_1", assistant.RunParams{AssistantID: "asst_1"}, agent.WithParallelism(1))

		require.NoError(t, err)
		assert.Equal(t, int32(1), peak.Load())
	})

	t.Run("requires action without executor cancels run", func(t *testing.T) {
		t.Parallel()

		cancelled := false
		svc := &mock.RunService{
			CreateRunStreamFn: func(context.Context, string, assistant.RunParams) (assistant.Stream, error) {
				return mock.Replay(assistant.EventRunRequiresAction{Run: run(assistant.RunStatusRequiresAction, assistant.ToolCall{ID: "call_1"})}), nil
			},
			CancelRunFn: func(_ context.Context, threadID, runID string) (assistant.Run, error) {
				cancelled = true
				return run(assistant.RunStatusCancelling), nil
			},
		}

		_, err := agent.New(svc, nil).Run(context.Background(), "thread_1", assistant.RunParams{AssistantID: "asst_1"})

		assert.ErrorIs(t, err, assistant.ErrNoToolExecutor)
		assert.True(t, cancelled)
	})

	t.Run("stream error is returned with last run", func(t *testing.T) {
		t.Parallel()

		boom := &assistant.TransportError{Err: errors.New("connection reset")}
		svc := &mock.RunService{
			CreateRunStreamFn: func(context.Context, string, assistant.RunParams) (assistant.Stream, error) {
				return mock.Replay(
					assistant.EventRunQueued{Run: run(assistant.RunStatusQueued)},
					assistant.EventError{Err: boom},
				), nil
			},
		}

		got, err := agent.New(svc, nil).Run(context.Background(), "thread_1", assistant.RunParams{AssistantID: "asst_1"})

		var te *assistant.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, assistant.RunStatusQueued, got.Status)
	})

	t.Run("open error is returned", func(t *testing.T) {
		t.Parallel()

		svc := &mock.RunService{
			CreateRunStreamFn: func(context.Context, string, assistant.RunParams) (assistant.Stream, error) {
				return nil, &assistant.StatusError{StatusCode: 401, Message: "bad key"}
			},
		}

		_, err := agent.New(svc, nil).Run(context.Background(), "thread_1", assistant.RunParams{AssistantID: "asst_1"})

		var se *assistant.StatusError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("stream without run status is an error", func(t *testing.T) {
		t.Parallel()

		svc := &mock.RunService{
			CreateRunStreamFn: func(context.Context, string, assistant.RunParams) (assistant.Stream, error) {
				return mock.Replay(assistant.EventMessageDelta{}), nil
			},
		}

		_, err := agent.New(svc, nil).Run(context.Background(), "thread_1", assistant.RunParams{AssistantID: "asst_1"})

		assert.ErrorContains(t, err, "without a run status")
	})

	t.Run("cancelled context stops tool execution", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		svc := &mock.RunService{
			CreateRunStreamFn: func(context.Context, string, assistant.RunParams) (assistant.Stream, error) {
				return mock.Replay(assistant.EventRunRequiresAction{Run: run(assistant.RunStatusRequiresAction, assistant.ToolCall{ID: "call_1"})}), nil
			},
		}
		executor := &mock.ToolExecutor{
			ExecuteFn: func(context.Context, string, json.RawMessage) (string, error) {
				t.Fatal("executor should not be called")
				return "", nil
			},
		}

		_, err := agent.New(svc, executor).Run(ctx, "thread_1", assistant.RunParams{AssistantID: "asst_1"})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
