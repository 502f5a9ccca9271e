package display

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth for the UI transcript view. The
// plain transcript keeps the unwrapped form.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// EnsureNewline guarantees text ends with exactly one trailing newline.
func EnsureNewline(text string) string {
	text = strings.TrimRight(text, "\n")
	return text + "\n"
}

// ParagraphBreak returns the minimum whitespace needed so that text
// appended after s starts a new paragraph. It never doubles an existing
// blank line.
func ParagraphBreak(s string) string {
	switch {
	case s == "" || strings.HasSuffix(s, "\n\n"):
		return ""
	case strings.HasSuffix(s, "\n"):
		return "\n"
	default:
		return "\n\n"
	}
}
