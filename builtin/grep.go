package builtin

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/assistant"
)

// sniffLen is how much of a file is inspected for NUL bytes before it is
// treated as binary and skipped.
const sniffLen = 512

type grepArgs struct {
	Pattern string `json:"pattern"`
	Path    string `json:"path"`
	Glob    string `json:"glob"`
}

// GrepTool returns the definition of the grep tool.
func GrepTool() assistant.FunctionTool {
	return assistant.FunctionTool{
		Name:        "grep",
		Description: "Search file contents in the workspace with a regular expression. Returns matching lines as path:line:content.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"pattern": {
					"type": "string",
					"description": "Regular expression (RE2 syntax) to search for"
				},
				"path": {
					"type": "string",
					"description": "File or directory to search, relative to the workspace root (default: the root)"
				},
				"glob": {
					"type": "string",
					"description": "Glob pattern to filter files (e.g. **/*.go)"
				}
			},
			"required": ["pattern"]
		}`),
	}
}

func (e *Executor) grep(ctx context.Context, args json.RawMessage) (string, error) {
	var a grepArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return failure("invalid arguments: %s", err)
	}
	if a.Pattern == "" {
		return failure("pattern is required")
	}
	re, err := regexp.Compile(a.Pattern)
	if err != nil {
		return failure("invalid regex pattern: %s", err)
	}
	if a.Glob != "" && !doublestar.ValidatePattern(a.Glob) {
		return failure("invalid glob pattern: %s", a.Glob)
	}

	root := resolve(a.Path)
	info, err := fs.Stat(e.fsys, root)
	if err != nil {
		return failure("path %s: %s", root, unwrapPath(err))
	}

	var b strings.Builder
	if !info.IsDir() {
		e.grepFile(&b, root, re)
	} else {
		err = fs.WalkDir(e.fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if a.Glob != "" {
				rel := strings.TrimPrefix(p, root+"/")
				if root == "." {
					rel = p
				}
				if ok, _ := doublestar.Match(a.Glob, rel); !ok {
					return nil
				}
			}
			e.grepFile(&b, p, re)
			if b.Len() > maxOutput {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			return "", err
		}
	}
	if b.Len() == 0 {
		return "no matches found", nil
	}
	return b.String(), nil
}

// grepFile appends the matching lines of name to b. Unreadable and binary
// files are skipped; a scan error keeps the matches found so far.
func (e *Executor) grepFile(b *strings.Builder, name string, re *regexp.Regexp) {
	f, err := e.fsys.Open(name)
	if err != nil {
		return
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, _ := br.Peek(sniffLen)
	if len(head) == 0 || bytes.IndexByte(head, 0) >= 0 {
		return
	}

	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if line := scanner.Text(); re.MatchString(line) {
			fmt.Fprintf(b, "%s:%d:%s\n", path.Clean(name), lineNum, sanitize(line))
		}
	}
}
