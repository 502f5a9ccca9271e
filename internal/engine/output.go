package engine

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-fiction/internal/display"
)

// OutputBuffer accumulates one turn's player-visible text. Nothing
// reaches the UI until the engine flushes, so output listeners get one
// shot at the complete turn text.
type OutputBuffer struct {
	sb strings.Builder
}

func (b *OutputBuffer) Print(text string) {
	b.sb.WriteString(text)
}

func (b *OutputBuffer) Printf(format string, args ...any) {
	fmt.Fprintf(&b.sb, format, args...)
}

// NewPar appends the minimum whitespace needed for the next print to
// start a paragraph. Consecutive calls never stack blank lines.
func (b *OutputBuffer) NewPar() {
	b.sb.WriteString(display.ParagraphBreak(b.sb.String()))
}

func (b *OutputBuffer) Len() int {
	return b.sb.Len()
}

// Take returns the buffered text and resets the buffer.
func (b *OutputBuffer) Take() string {
	text := b.sb.String()
	b.sb.Reset()
	return text
}
