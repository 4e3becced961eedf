// Package goldmark renders assistant message text to ANSI-styled terminal
// output using goldmark for parsing and lipgloss for styling.
package goldmark

import (
	"fmt"
	"strings"

	"github.com/fwojciec/assistant"
)

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func Render(source string, width int, theme assistant.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme).render([]byte(source), width)
}

// RenderText renders a text content part. Each annotation's marker text in
// the body is replaced with a numbered reference like [1], and a footnote
// list naming the cited files follows the body.
func RenderText(tc assistant.TextContent, width int, theme assistant.Theme) string {
	body, notes := substituteCitations(tc)
	out := Render(body, width, theme)
	if len(notes) == 0 {
		return out
	}
	r := newRenderer(theme)
	var b strings.Builder
	b.WriteString(out)
	b.WriteString("\n")
	for _, n := range notes {
		b.WriteString("\n")
		b.WriteString(r.citation.Render(n))
	}
	return b.String()
}

// substituteCitations swaps annotation markers for numbered references and
// returns the footnote lines. Annotations sharing a file and quote share a
// number. Markers not found in the body still get a footnote.
func substituteCitations(tc assistant.TextContent) (string, []string) {
	body := tc.Value
	var notes []string
	seen := map[string]int{}
	for _, a := range tc.Annotations {
		key := string(a.Type) + "\x00" + a.FileID + "\x00" + a.Quote
		n, ok := seen[key]
		if !ok {
			n = len(notes) + 1
			seen[key] = n
			notes = append(notes, footnote(n, a))
		}
		if a.Text != "" {
			body = strings.Replace(body, a.Text, fmt.Sprintf("[%d]", n), 1)
		}
	}
	return body, notes
}

func footnote(n int, a assistant.Annotation) string {
	switch {
	case a.Type == assistant.AnnotationFilePath:
		return fmt.Sprintf("[%d] file %s", n, a.FileID)
	case a.Quote != "":
		return fmt.Sprintf("[%d] %s: %q", n, a.FileID, a.Quote)
	default:
		return fmt.Sprintf("[%d] %s", n, a.FileID)
	}
}
