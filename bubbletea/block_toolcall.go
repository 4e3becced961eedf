package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/assistant"
	"github.com/rivo/uniseg"
)

var _ MessageBlock = (*ToolCallBlock)(nil)

const maxPreviewWidth = 60

// ToolCallBlock renders one tool call of a run step with a collapsible
// toggle. Collapsed, it shows the tool name and a one-line output preview.
type ToolCallBlock struct {
	name      string
	id        string
	args      strings.Builder
	output    strings.Builder
	collapsed bool
	styles    Styles
}

// NewToolCallBlock creates a ToolCallBlock that starts collapsed. name is the
// function name, or the tool type for built-in tools.
func NewToolCallBlock(name, id string, styles Styles) *ToolCallBlock {
	return &ToolCallBlock{name: name, id: id, collapsed: true, styles: styles}
}

// ID returns the tool call ID.
func (b *ToolCallBlock) ID() string { return b.id }

// Apply merges a tool call fragment into the block.
func (b *ToolCallBlock) Apply(d assistant.ToolCallDelta) {
	if b.id == "" {
		b.id = d.ID
	}
	switch {
	case d.Name != "":
		b.name = d.Name
	case b.name == "":
		b.name = d.Type
	}
	b.args.WriteString(d.Arguments)
	b.output.WriteString(d.Output)
}

func (b *ToolCallBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	if _, ok := msg.(ToggleMsg); ok {
		b.collapsed = !b.collapsed
	}
	return b, nil
}

func (b *ToolCallBlock) View(width int) string {
	if b.collapsed {
		header := b.styles.ToolCall.Render("▶ " + b.name)
		if b.output.Len() > 0 {
			header += "  " + b.styles.Muted.Render(preview(b.output.String(), maxPreviewWidth))
		}
		return b.styles.ToolCallBg.Width(width).Render(header)
	}
	content := b.styles.ToolCall.Render("▼ " + b.name)
	if b.args.Len() > 0 {
		content += "\n" + b.styles.Muted.Render(b.args.String())
	}
	if b.output.Len() > 0 {
		content += "\n" + b.output.String()
	}
	return b.styles.ToolCallBg.Width(width).Render(content)
}

// preview returns the first line of s cut to at most width terminal cells
// without splitting a grapheme cluster.
func preview(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String() + "…"
}
