// Package source holds immutable input text and maps byte offsets to
// (line, column) positions.
package source

import (
	"encoding/hex"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

// TextSpan is a half-open byte range [Start, Start+Length) into a Text.
type TextSpan struct {
	Start  int
	Length int
}

// End returns the exclusive end offset of the span.
func (s TextSpan) End() int { return s.Start + s.Length }

// FromBounds builds a span from a start and an exclusive end offset.
func FromBounds(start, end int) TextSpan {
	return TextSpan{Start: start, Length: end - start}
}

// line records one physical line: its byte range, and the range including
// the trailing line break.
type line struct {
	start                    int
	length                   int
	lengthWithLineBreak      int
}

// Text is an immutable source buffer plus a precomputed line table.
type Text struct {
	name  string
	value string
	lines []line
}

// New normalizes text to NFC (so combining-mark identifiers have stable
// column offsets) and builds its line table.
func New(name, text string) *Text {
	normalized := norm.NFC.String(text)
	t := &Text{name: name, value: normalized}
	t.lines = parseLines(normalized)
	return t
}

// Name is the name passed to New: a file path, a placeholder such as
// "<repl>" for REPL input, or "".
func (t *Text) Name() string { return t.name }

// Value returns the full source text.
func (t *Text) Value() string { return t.value }

// Len returns the number of bytes in the source text.
func (t *Text) Len() int { return len(t.value) }

// At returns the byte at the given offset.
func (t *Text) At(i int) byte { return t.value[i] }

// Slice returns the substring covered by span.
func (t *Text) Slice(span TextSpan) string {
	return t.value[span.Start : span.Start+span.Length]
}

// Hash returns a content hash of the source text, hex-encoded. Used as the
// diagnostics cache key in pkgs/compilation.
func (t *Text) Hash() string {
	sum := blake2b.Sum256([]byte(t.value))
	return hex.EncodeToString(sum[:])
}

// LineCount returns the number of physical lines.
func (t *Text) LineCount() int { return len(t.lines) }

// LineIndexOf returns the 0-based index of the line containing offset, via
// binary search over line start offsets.
func (t *Text) LineIndexOf(offset int) int {
	idx := sort.Search(len(t.lines), func(i int) bool {
		return t.lines[i].start > offset
	})
	return idx - 1
}

// LineSpan returns the byte span of line i, excluding its line break.
func (t *Text) LineSpan(i int) TextSpan {
	l := t.lines[i]
	return TextSpan{Start: l.start, Length: l.length}
}

// LineText returns the text of line i, excluding its line break.
func (t *Text) LineText(i int) string {
	return t.Slice(t.LineSpan(i))
}

// LineColumn converts a byte offset into a 1-based (line, column) pair.
func (t *Text) LineColumn(offset int) (lineNo, col int) {
	idx := t.LineIndexOf(offset)
	if idx < 0 {
		return 1, 1
	}
	l := t.lines[idx]
	return idx + 1, offset - l.start + 1
}

func parseLines(text string) []line {
	var result []line
	position := 0
	lineStart := 0

	for position < len(text) {
		width := lineBreakWidth(text, position)
		if width == 0 {
			position++
			continue
		}
		result = append(result, line{
			start:               lineStart,
			length:              position - lineStart,
			lengthWithLineBreak: position - lineStart + width,
		})
		position += width
		lineStart = position
	}

	if position >= lineStart {
		result = append(result, line{
			start:               lineStart,
			length:              position - lineStart,
			lengthWithLineBreak: position - lineStart,
		})
	}

	return result
}

func lineBreakWidth(text string, position int) int {
	c := text[position]
	var next byte
	if position+1 < len(text) {
		next = text[position+1]
	}
	if c == '\r' && next == '\n' {
		return 2
	}
	if c == '\r' || c == '\n' {
		return 1
	}
	return 0
}

// Location ties a TextSpan to the Text it came from, for diagnostics.
type Location struct {
	Text *Text
	Span TextSpan
}

// LineColumn returns the 1-based (line, column) of the span's start.
func (l Location) LineColumn() (line, col int) {
	if l.Text == nil {
		return 0, 0
	}
	return l.Text.LineColumn(l.Span.Start)
}
