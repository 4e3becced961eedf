// Package builtin provides local function tools the assistant can call
// against a workspace directory. Every tool is read-only. Paths are resolved
// inside the workspace: absolute paths are taken relative to its root and
// ".." never climbs above it.
package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/fwojciec/assistant"
)

// maxOutput caps a single tool output in bytes.
const maxOutput = 64 * 1024

var _ assistant.ToolExecutor = (*Executor)(nil)

// Executor dispatches function calls to the built-in tools.
type Executor struct {
	fsys   fs.FS
	logger *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used to record each tool call.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// NewExecutor returns an Executor rooted at the directory dir.
func NewExecutor(dir string, opts ...Option) *Executor {
	return NewFSExecutor(os.DirFS(dir), opts...)
}

// NewFSExecutor returns an Executor over fsys.
func NewFSExecutor(fsys fs.FS, opts ...Option) *Executor {
	e := &Executor{
		fsys:   fsys,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tools returns the definitions to advertise on a run.
func (e *Executor) Tools() []assistant.FunctionTool {
	return []assistant.FunctionTool{
		ReadFileTool(),
		GlobTool(),
		GrepTool(),
	}
}

// Execute runs the named tool. Bad arguments and unknown tools produce an
// output describing the problem so the assistant can correct itself; error
// is reserved for cancellation.
func (e *Executor) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.logger.DebugContext(ctx, "tool call", "name", name, "args", string(args))
	var (
		out string
		err error
	)
	switch name {
	case "read_file":
		out, err = e.readFile(args)
	case "glob":
		out, err = e.glob(args)
	case "grep":
		out, err = e.grep(ctx, args)
	default:
		return failure("unknown tool: %s", name)
	}
	if err != nil {
		return "", err
	}
	return truncate(out), nil
}

// failure formats a tool-level failure as an output.
func failure(format string, args ...any) (string, error) {
	return "error: " + fmt.Sprintf(format, args...), nil
}

// resolve maps a tool-supplied path to an fs.FS path. Empty and "." name
// the workspace root.
func resolve(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, `\`, "/")), "/")
	if p == "" {
		return "."
	}
	return p
}

func truncate(s string) string {
	if len(s) <= maxOutput {
		return s
	}
	cut := strings.LastIndexByte(s[:maxOutput], '\n')
	if cut <= 0 {
		cut = maxOutput
	}
	return s[:cut] + "\n[output truncated]"
}
