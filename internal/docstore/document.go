package docstore

import "strings"

// Document is an immutable text snapshot taken from the store.
type Document struct {
	uri  string
	text string
}

func (d Document) URI() string  { return d.uri }
func (d Document) Text() string { return d.text }

// OffsetAt converts a zero-based line/character position into a byte offset.
// Line and character are clamped to the document, so an out-of-range position
// never panics: a line past the end maps to len(text), a character past the
// end of its line maps to the line end.
func (d Document) OffsetAt(line, character int) int {
	if line < 0 {
		line = 0
	}
	if character < 0 {
		character = 0
	}
	offset := 0
	rest := d.text
	for line > 0 {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			return len(d.text)
		}
		offset += idx + 1
		rest = rest[idx+1:]
		line--
	}
	lineLen := len(rest)
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		lineLen = idx
	}
	if character > lineLen {
		character = lineLen
	}
	return offset + character
}
