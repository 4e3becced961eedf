package builtin

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// sanitize strips ANSI escape sequences and control characters from file
// text. Tabs and newlines are kept; CRLF becomes LF and a lone CR is
// dropped.
func sanitize(s string) string {
	s = ansi.Strip(s)
	if !strings.ContainsFunc(s, isControl) {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if isControl(r) {
			return -1
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	return r != '\t' && r != '\n' && (r <= 0x1F || r == 0x7F)
}
