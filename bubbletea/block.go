package bubbletea

import tea "github.com/charmbracelet/bubbletea"

// MessageBlock is a renderable element in the conversation.
// Unlike tea.Model, View takes a width parameter so the root model
// controls layout and blocks are testable in isolation.
type MessageBlock interface {
	Update(tea.Msg) (MessageBlock, tea.Cmd)
	View(width int) string
}

// ToggleMsg tells a collapsible block to toggle its collapsed state.
// Sent by the root model when the user presses Tab on a focused block.
type ToggleMsg struct{}

// blockSeparator returns the gap between two adjacent blocks. Consecutive
// tool calls sit on adjacent lines; everything else gets a blank line.
func blockSeparator(prev, curr MessageBlock) string {
	_, prevTool := prev.(*ToolCallBlock)
	_, currTool := curr.(*ToolCallBlock)
	if prevTool && currTool {
		return "\n"
	}
	return "\n\n"
}
