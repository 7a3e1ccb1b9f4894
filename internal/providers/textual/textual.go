// Package textual holds helpers shared by the text producers.
package textual

import (
	"strings"
	"unicode/utf8"
)

// maxTitleLength is the longest line considered a title.
const maxTitleLength = 200

// Clean normalises line endings and drops NUL bytes and invalid UTF-8.
func Clean(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Title returns the first non-empty line of content that is short enough
// to be a title, or "".
func Title(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxTitleLength {
			continue
		}
		return line
	}
	return ""
}
