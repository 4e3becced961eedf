package goldmark

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/assistant"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const minListWidth = 10

type ansiRenderer struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	underline lipgloss.Style
	code      lipgloss.Style
	citation  lipgloss.Style
}

func newRenderer(theme assistant.Theme) *ansiRenderer {
	return &ansiRenderer{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		heading:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		underline: lipgloss.NewStyle().Underline(true),
		code:      lipgloss.NewStyle().Background(ansiColor(theme.CodeBg)),
		citation:  lipgloss.NewStyle().Foreground(ansiColor(theme.Citation)),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *ansiRenderer) render(source []byte, width int) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	var buf bytes.Buffer
	r.blocks(doc, source, width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

func (r *ansiRenderer) blocks(parent ast.Node, source []byte, width int, buf *bytes.Buffer) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c, source, width, buf)
		if c.NextSibling() != nil && separated(c) {
			buf.WriteString("\n")
		}
	}
}

// separated reports whether a blank line follows the block.
func separated(n ast.Node) bool {
	_, html := n.(*ast.HTMLBlock)
	return !html
}

func (r *ansiRenderer) block(node ast.Node, source []byte, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph:
		r.wrapped(r.inlines(n, source), width, buf)

	case *ast.Heading:
		r.wrapped(r.heading.Render(r.inlines(n, source)), width, buf)

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(source)); lang != "" {
			buf.WriteString(r.muted.Render(lang))
			buf.WriteString("\n")
		}
		r.codeLines(n.Lines(), source, buf)

	case *ast.CodeBlock:
		r.codeLines(n.Lines(), source, buf)

	case *ast.List:
		r.list(n, source, width, buf, 0)

	case *ast.ThematicBreak:
		buf.WriteString("---\n")

	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}

	default:
		// Blockquotes and anything else: render the children unstyled.
		r.blocks(node, source, width, buf)
	}
}

func (r *ansiRenderer) wrapped(s string, width int, buf *bytes.Buffer) {
	buf.WriteString(lipgloss.NewStyle().Width(width).Render(s))
	buf.WriteString("\n")
}

// codeLines writes code verbatim behind a gutter. Code is never reflowed.
func (r *ansiRenderer) codeLines(lines *text.Segments, source []byte, buf *bytes.Buffer) {
	gutter := r.muted.Render("│") + " "
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(source)), "\n")
		buf.WriteString(gutter)
		buf.WriteString(r.code.Render(line))
		buf.WriteString("\n")
	}
}

func (r *ansiRenderer) list(node *ast.List, source []byte, width int, buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	num := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if node.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}

		var pending bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				pending.WriteString(r.inlines(in, source))
			case *ast.List:
				if pending.Len() > 0 {
					r.listItem(buf, indent+marker, pending.String(), width)
					pending.Reset()
				}
				r.list(in, source, width, buf, depth+1)
				marker = strings.Repeat(" ", runewidth.StringWidth(marker))
			default:
				r.block(ic, source, width, &pending)
			}
		}
		if pending.Len() > 0 {
			r.listItem(buf, indent+marker, pending.String(), width)
		}
	}
}

// listItem writes one item, hanging continuation lines under the first
// character after the marker.
func (r *ansiRenderer) listItem(buf *bytes.Buffer, prefix, content string, width int) {
	pw := runewidth.StringWidth(prefix)
	w := max(width-pw, minListWidth)
	hang := strings.Repeat(" ", pw)
	for i, line := range strings.Split(lipgloss.NewStyle().Width(w).Render(content), "\n") {
		if i == 0 {
			buf.WriteString(prefix)
		} else {
			buf.WriteString(hang)
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

func (r *ansiRenderer) inlines(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(c, source, &buf)
	}
	return buf.String()
}

func (r *ansiRenderer) inline(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		inner := r.inlines(n, source)
		if n.Level == 1 {
			buf.WriteString(r.italic.Render(inner))
		} else {
			buf.WriteString(r.bold.Render(inner))
		}

	case *ast.CodeSpan:
		buf.WriteString(r.code.Bold(true).Render(r.inlines(n, source)))

	case *ast.Link:
		r.target(r.inlines(n, source), string(n.Destination), buf)

	case *ast.Image:
		r.target(r.inlines(n, source), string(n.Destination), buf)

	case *ast.AutoLink:
		buf.WriteString(r.underline.Render(string(n.URL(source))))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(source))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.inline(c, source, buf)
		}
	}
}

func (r *ansiRenderer) target(label, dest string, buf *bytes.Buffer) {
	buf.WriteString(r.underline.Render(label))
	buf.WriteString(" ")
	buf.WriteString(r.muted.Render("(" + dest + ")"))
}
