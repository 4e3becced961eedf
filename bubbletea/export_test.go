package bubbletea

// BlockSeparator exports blockSeparator for testing.
func BlockSeparator(prev, curr MessageBlock) string {
	return blockSeparator(prev, curr)
}

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// BlockFocus exports the focused block index for testing.
func BlockFocus(m Model) int {
	return m.blockFocus
}

// StatusLine exports statusLine for testing.
func StatusLine(m Model) string {
	return m.statusLine()
}

// Preview exports preview for testing.
func Preview(s string, width int) string {
	return preview(s, width)
}

// SetRunning puts the model in a running state with an optional cancel
// function.
func SetRunning(m Model, cancel func()) Model {
	m.running = true
	m.cancel = cancel
	return m
}
