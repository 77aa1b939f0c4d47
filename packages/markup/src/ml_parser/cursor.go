package ml_parser

import (
	"strings"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/core"
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

// LexerRange restricts scanning to a byte range of the source file
type LexerRange struct {
	StartPos int
	EndPos   int
}

// CursorState represents the position of a character cursor. Line and
// Column agree with util.ParseSourceFile.LineCol so that a cursor can be
// rebuilt from an offset alone.
type CursorState struct {
	Peek   int
	Offset int
	Line   int
	Column int
}

// PlainCharacterCursor moves byte by byte through the source text
type PlainCharacterCursor struct {
	state CursorState
	file  *util.ParseSourceFile
	input string
	end   int
}

// NewPlainCharacterCursor creates a cursor positioned at offset, scanning up
// to end.
func NewPlainCharacterCursor(file *util.ParseSourceFile, offset, end int) *PlainCharacterCursor {
	line, col := file.LineCol(offset)
	p := &PlainCharacterCursor{
		file:  file,
		input: file.Content,
		end:   end,
		state: CursorState{
			Offset: offset,
			Line:   line,
			Column: col,
		},
	}
	p.updatePeek()
	return p
}

// Clone creates a copy of the cursor
func (p *PlainCharacterCursor) Clone() *PlainCharacterCursor {
	c := *p
	return &c
}

// Peek returns the current character, or core.CharEOF
func (p *PlainCharacterCursor) Peek() int {
	return p.state.Peek
}

// PeekAt returns the character n bytes ahead of the current one
func (p *PlainCharacterCursor) PeekAt(n int) int {
	pos := p.state.Offset + n
	if pos >= p.end || pos < 0 {
		return core.CharEOF
	}
	return int(p.input[pos])
}

// AtEOF reports whether the cursor reached the end of its range
func (p *PlainCharacterCursor) AtEOF() bool {
	return p.state.Offset >= p.end
}

// Offset returns the current byte offset
func (p *PlainCharacterCursor) Offset() int {
	return p.state.Offset
}

// Advance advances the cursor by one byte
func (p *PlainCharacterCursor) Advance() {
	if p.state.Offset >= p.end {
		return
	}
	if p.input[p.state.Offset] == '\n' {
		p.state.Line++
		p.state.Column = 0
	} else {
		p.state.Column++
	}
	p.state.Offset++
	p.updatePeek()
}

// AdvanceBy advances the cursor by n bytes
func (p *PlainCharacterCursor) AdvanceBy(n int) {
	for i := 0; i < n; i++ {
		p.Advance()
	}
}

// HasPrefix reports whether the remaining input starts with s
func (p *PlainCharacterCursor) HasPrefix(s string) bool {
	return strings.HasPrefix(p.input[p.state.Offset:p.end], s)
}

// HasPrefixFold reports whether the remaining input starts with s, ignoring
// ASCII case
func (p *PlainCharacterCursor) HasPrefixFold(s string) bool {
	rest := p.input[p.state.Offset:p.end]
	return len(rest) >= len(s) && strings.EqualFold(rest[:len(s)], s)
}

// SkipWhitespace advances past ASCII whitespace
func (p *PlainCharacterCursor) SkipWhitespace() {
	for core.IsWhitespace(p.Peek()) {
		p.Advance()
	}
}

// Location returns the current location
func (p *PlainCharacterCursor) Location() *util.ParseLocation {
	return util.NewParseLocation(p.file, p.state.Offset, p.state.Line, p.state.Column)
}

// GetSpan returns a span from start to the current position. fullStart,
// when not nil, marks where the leading trivia of the span began.
func (p *PlainCharacterCursor) GetSpan(start, fullStart *PlainCharacterCursor) *util.ParseSourceSpan {
	startLocation := start.Location()
	fullStartLocation := startLocation
	if fullStart != nil {
		fullStartLocation = fullStart.Location()
	}
	return util.NewParseSourceSpan(startLocation, p.Location(), fullStartLocation, nil)
}

// GetChars returns characters from start to the current position
func (p *PlainCharacterCursor) GetChars(start *PlainCharacterCursor) string {
	return p.input[start.state.Offset:p.state.Offset]
}

// Diff returns the difference between this cursor and another
func (p *PlainCharacterCursor) Diff(other *PlainCharacterCursor) int {
	return p.state.Offset - other.state.Offset
}

// spanAt builds a span for the byte range [from, to) of the same file.
func (p *PlainCharacterCursor) spanAt(from, to int) *util.ParseSourceSpan {
	return util.NewParseSourceSpan(p.file.Location(from), p.file.Location(to), nil, nil)
}

func (p *PlainCharacterCursor) updatePeek() {
	if p.state.Offset >= p.end {
		p.state.Peek = core.CharEOF
	} else {
		p.state.Peek = int(p.input[p.state.Offset])
	}
}
