package builtin

import (
	"encoding/json"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/assistant"
)

type globArgs struct {
	Pattern string `json:"pattern"`
	Path    string `json:"path"`
}

// GlobTool returns the definition of the glob tool.
func GlobTool() assistant.FunctionTool {
	return assistant.FunctionTool{
		Name:        "glob",
		Description: "Find files in the workspace matching a glob pattern. Supports ** for recursive matching.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"pattern": {
					"type": "string",
					"description": "Glob pattern to match files (e.g. **/*.go)"
				},
				"path": {
					"type": "string",
					"description": "Directory to search from, relative to the workspace root (default: the root)"
				}
			},
			"required": ["pattern"]
		}`),
	}
}

func (e *Executor) glob(args json.RawMessage) (string, error) {
	var a globArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return failure("invalid arguments: %s", err)
	}
	if a.Pattern == "" {
		return failure("pattern is required")
	}
	if !doublestar.ValidatePattern(a.Pattern) {
		return failure("invalid glob pattern: %s", a.Pattern)
	}

	base := resolve(a.Path)
	sub, err := fs.Sub(e.fsys, base)
	if err != nil {
		return failure("path %s: %s", base, err)
	}
	if info, err := fs.Stat(sub, "."); err != nil {
		return failure("path %s: %s", base, unwrapPath(err))
	} else if !info.IsDir() {
		return failure("%s is not a directory", base)
	}

	var matches []string
	err = doublestar.GlobWalk(sub, a.Pattern, func(p string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, path.Join(base, p))
		return nil
	})
	if err != nil {
		return failure("match %s: %s", a.Pattern, err)
	}
	if len(matches) == 0 {
		return "no matches found", nil
	}
	return strings.Join(matches, "\n"), nil
}
