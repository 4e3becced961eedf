package bubbletea

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/assistant"
	"github.com/fwojciec/assistant/goldmark"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders an assistant message with markdown formatting.
// While the message streams, finalized paragraphs (separated by a blank
// line) are rendered once per width and cached; only the trailing text is
// re-rendered on each delta. Once the message carries annotations it is
// rendered as a whole with numbered citations.
type AssistantTextBlock struct {
	theme  assistant.Theme
	styles Styles

	raw         string
	annotations []assistant.Annotation
	images      []string

	// finalizedRaw is the stable prefix ending at the last blank line.
	finalizedRaw     string
	finalizedByWidth map[int]string
}

// NewAssistantTextBlock creates a new block for an assistant message.
func NewAssistantTextBlock(theme assistant.Theme, styles Styles) *AssistantTextBlock {
	return &AssistantTextBlock{
		theme:            theme,
		styles:           styles,
		finalizedByWidth: make(map[int]string),
	}
}

// SetContent replaces the block's content with the message parts assembled
// so far. Text parts are joined; image parts are listed after the text.
func (b *AssistantTextBlock) SetContent(parts []assistant.MessageContent) {
	var text strings.Builder
	b.annotations = b.annotations[:0]
	b.images = b.images[:0]
	for _, p := range parts {
		switch p := p.(type) {
		case assistant.TextContent:
			text.WriteString(p.Value)
			b.annotations = append(b.annotations, p.Annotations...)
		case assistant.ImageFileContent:
			b.images = append(b.images, p.FileID)
		}
	}
	if raw := text.String(); raw != b.raw {
		b.raw = raw
		b.promoteFinalized()
	}
}

func (b *AssistantTextBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *AssistantTextBlock) View(width int) string {
	var out string
	if len(b.annotations) > 0 {
		out = goldmark.RenderText(assistant.TextContent{Value: closeFence(b.raw), Annotations: b.annotations}, width, b.theme)
	} else {
		out = b.viewStreaming(width)
	}
	for _, id := range b.images {
		if out != "" {
			out += "\n"
		}
		out += b.styles.Muted.Render("[image " + id + "]")
	}
	return out
}

func (b *AssistantTextBlock) viewStreaming(width int) string {
	finalized := b.renderFinalized(width)
	trailing := b.trailingRaw()
	// Empty or whitespace-only trailing text would add blank lines after the
	// finalized content.
	if strings.TrimSpace(trailing) == "" {
		return finalized
	}
	rendered := goldmark.Render(closeFence(trailing), width, b.theme)
	if strings.TrimSpace(rendered) == "" {
		return finalized
	}
	if finalized == "" {
		return rendered
	}
	// Fragments are rendered independently; rebuild the paragraph break with
	// a single blank line so the seam matches a full-document render.
	return strings.TrimRight(finalized, "\n") + "\n\n" + strings.TrimLeft(rendered, "\n")
}

// promoteFinalized moves the finalized boundary to the last blank line that
// does not fall inside an unclosed fenced code block.
func (b *AssistantTextBlock) promoteFinalized() {
	if !strings.HasPrefix(b.raw, b.finalizedRaw) {
		b.finalizedRaw = ""
		clear(b.finalizedByWidth)
	}
	for end := len(b.raw); ; {
		idx := strings.LastIndex(b.raw[:end], "\n\n")
		if idx <= 0 {
			return
		}
		candidate := b.raw[:idx]
		if !hasUnclosedFence(candidate) {
			if candidate != b.finalizedRaw {
				b.finalizedRaw = candidate
				clear(b.finalizedByWidth)
			}
			return
		}
		end = idx
	}
}

func (b *AssistantTextBlock) renderFinalized(width int) string {
	if width <= 0 || b.finalizedRaw == "" {
		return ""
	}
	if cached, ok := b.finalizedByWidth[width]; ok {
		return cached
	}
	rendered := goldmark.Render(b.finalizedRaw, width, b.theme)
	b.finalizedByWidth[width] = rendered
	return rendered
}

func (b *AssistantTextBlock) trailingRaw() string {
	if b.finalizedRaw == "" {
		return b.raw
	}
	return strings.TrimPrefix(b.raw, b.finalizedRaw+"\n\n")
}

// closeFence closes a dangling code fence so a partial stream renders as a
// code block.
func closeFence(s string) string {
	if hasUnclosedFence(s) {
		return s + "\n```"
	}
	return s
}

// hasUnclosedFence counts "```" occurrences. Triple backticks inside inline
// code spans are miscounted.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
