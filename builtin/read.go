package builtin

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fwojciec/assistant"
)

type readArgs struct {
	FilePath string `json:"file_path"`
	Offset   int    `json:"offset"` // 1-based line number to start from
	Limit    int    `json:"limit"`  // number of lines to read
}

// ReadFileTool returns the definition of the read_file tool.
func ReadFileTool() assistant.FunctionTool {
	return assistant.FunctionTool{
		Name:        "read_file",
		Description: "Read a file from the workspace. Lines are numbered; use offset and limit to page through large files.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file_path": {
					"type": "string",
					"description": "Path of the file, relative to the workspace root"
				},
				"offset": {
					"type": "integer",
					"description": "Line number to start reading from (1-based)"
				},
				"limit": {
					"type": "integer",
					"description": "Maximum number of lines to read"
				}
			},
			"required": ["file_path"]
		}`),
	}
}

func (e *Executor) readFile(args json.RawMessage) (string, error) {
	var a readArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return failure("invalid arguments: %s", err)
	}
	if a.FilePath == "" {
		return failure("file_path is required")
	}

	name := resolve(a.FilePath)
	f, err := e.fsys.Open(name)
	if err != nil {
		return failure("open %s: %s", name, unwrapPath(err))
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil && info.IsDir() {
		return failure("%s is a directory", name)
	}

	var b strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum, linesRead := 0, 0
	for scanner.Scan() {
		lineNum++
		if a.Offset > 0 && lineNum < a.Offset {
			continue
		}
		if a.Limit > 0 && linesRead >= a.Limit {
			break
		}
		fmt.Fprintf(&b, "%d\t%s\n", lineNum, sanitize(scanner.Text()))
		linesRead++
		if b.Len() > maxOutput {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return failure("read %s: %s", name, err)
	}
	if b.Len() == 0 {
		return "(no lines)", nil
	}
	return b.String(), nil
}

// unwrapPath drops the *fs.PathError wrapper, whose path is already in the
// message.
func unwrapPath(err error) error {
	if pe, ok := err.(*fs.PathError); ok {
		return pe.Err
	}
	return err
}
