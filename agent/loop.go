// Package agent drives a run to completion: it streams the run, answers
// requires_action pauses with a ToolExecutor, and resubmits until the run
// reaches a terminal status.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fwojciec/assistant"
	"golang.org/x/sync/errgroup"
)

// Loop orchestrates a run between a RunService and a ToolExecutor.
type Loop struct {
	runs     assistant.RunService
	executor assistant.ToolExecutor
}

// New creates a new Loop. executor may be nil for assistants without
// function tools; a run that requests tool outputs then fails with
// assistant.ErrNoToolExecutor.
func New(runs assistant.RunService, executor assistant.ToolExecutor) *Loop {
	return &Loop{runs: runs, executor: executor}
}

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	onEvent     func(assistant.Event)
	parallelism int
}

// WithEventHandler sets a callback that receives each non-terminal streaming
// event during the run. If nil or not set, events are silently discarded.
func WithEventHandler(h func(assistant.Event)) RunOption {
	return func(c *runConfig) {
		c.onEvent = h
	}
}

// WithParallelism bounds how many tool calls of one requires_action pause
// execute at once. Zero or negative means no bound.
func WithParallelism(n int) RunOption {
	return func(c *runConfig) {
		c.parallelism = n
	}
}

// Run starts a run on threadID and drives it until it reaches a terminal
// status. It returns the last run snapshot observed. A run that ends failed,
// cancelled or expired is not an error; inspect Run.Status.
func (l *Loop) Run(ctx context.Context, threadID string, params assistant.RunParams, opts ...RunOption) (assistant.Run, error) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	stream, err := l.runs.CreateRunStream(ctx, threadID, params)
	if err != nil {
		return assistant.Run{}, err
	}
	for {
		run, err := l.drain(stream, &cfg)
		if err != nil {
			return run, err
		}
		if run.Status != assistant.RunStatusRequiresAction {
			return run, nil
		}

		outputs, err := l.answer(ctx, run, &cfg)
		if err != nil {
			return run, err
		}
		stream, err = l.runs.SubmitToolOutputsStream(ctx, run.ThreadID, run.ID, outputs)
		if err != nil {
			return run, err
		}
	}
}

// drain reads one stream to its end and returns the last run snapshot.
func (l *Loop) drain(stream assistant.Stream, cfg *runConfig) (assistant.Run, error) {
	defer stream.Close()

	var last assistant.Run
	seen := false
	for {
		evt, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return last, err
		}
		if run, ok := assistant.RunOf(evt); ok {
			last, seen = run, true
		}
		if cfg.onEvent != nil {
			cfg.onEvent(evt)
		}
	}
	if !seen {
		return last, errors.New("agent: stream ended without a run status")
	}
	return last, nil
}

// answer executes the tool calls of a run in requires_action concurrently and
// returns the outputs in call order. Tool failures become outputs so the
// assistant can react to them.
func (l *Loop) answer(ctx context.Context, run assistant.Run, cfg *runConfig) ([]assistant.ToolOutput, error) {
	if run.RequiredAction == nil || len(run.RequiredAction.ToolCalls) == 0 {
		return nil, fmt.Errorf("agent: run %s requires action but lists no tool calls", run.ID)
	}
	if l.executor == nil {
		if _, err := l.runs.CancelRun(ctx, run.ThreadID, run.ID); err != nil {
			return nil, errors.Join(assistant.ErrNoToolExecutor, err)
		}
		return nil, assistant.ErrNoToolExecutor
	}

	calls := run.RequiredAction.ToolCalls
	outputs := make([]assistant.ToolOutput, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.parallelism > 0 {
		g.SetLimit(cfg.parallelism)
	}
	for i, tc := range calls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := l.executor.Execute(gctx, tc.Name, tc.Arguments)
			if err != nil {
				out = "error: " + err.Error()
			}
			outputs[i] = assistant.ToolOutput{ToolCallID: tc.ID, Output: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := assistant.ValidateToolOutputs(*run.RequiredAction, outputs); err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	return outputs, nil
}
