package util

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ParseLocation represents a location in the source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
	}
	return p.File.URL
}

// GetContext returns the source context around the location
func (p *ParseLocation) GetContext(maxChars, maxLines int) *Context {
	content := p.File.Content
	if p.Offset < 0 || len(content) == 0 {
		return nil
	}

	startOffset := p.Offset
	if startOffset > len(content) {
		startOffset = len(content)
	}
	endOffset := startOffset

	ctxChars := 0
	ctxLines := 0
	for ctxChars < maxChars && startOffset > 0 {
		startOffset--
		ctxChars++
		if content[startOffset] == '\n' {
			ctxLines++
			if ctxLines == maxLines {
				break
			}
		}
	}

	ctxChars = 0
	ctxLines = 0
	for ctxChars < maxChars && endOffset < len(content) {
		if content[endOffset] == '\n' {
			ctxLines++
			if ctxLines == maxLines {
				break
			}
		}
		endOffset++
		ctxChars++
	}

	anchor := p.Offset
	if anchor > len(content) {
		anchor = len(content)
	}
	return &Context{
		Before: content[startOffset:anchor],
		After:  content[anchor:endOffset],
	}
}

// Context represents source context around a location
type Context struct {
	Before string
	After  string
}

// ParseSourceFile represents a source file
type ParseSourceFile struct {
	Content string
	URL     string

	linesOnce  sync.Once
	lineStarts []int
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{
		Content: content,
		URL:     url,
	}
}

// LineCol maps a byte offset to its 0-based line and column.
func (f *ParseSourceFile) LineCol(offset int) (int, int) {
	f.linesOnce.Do(func() {
		f.lineStarts = append(f.lineStarts, 0)
		for i := 0; i < len(f.Content); i++ {
			if f.Content[i] == '\n' {
				f.lineStarts = append(f.lineStarts, i+1)
			}
		}
	})
	line := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return line, offset - f.lineStarts[line]
}

// Location returns the ParseLocation of a byte offset.
func (f *ParseSourceFile) Location(offset int) *ParseLocation {
	line, col := f.LineCol(offset)
	return NewParseLocation(f, offset, line, col)
}

// ParseSourceSpan represents a span of source code
type ParseSourceSpan struct {
	Start     *ParseLocation
	End       *ParseLocation
	FullStart *ParseLocation
	Details   *string
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation, fullStart *ParseLocation, details *string) *ParseSourceSpan {
	if fullStart == nil {
		fullStart = start
	}
	return &ParseSourceSpan{
		Start:     start,
		End:       end,
		FullStart: fullStart,
		Details:   details,
	}
}

// String returns the source code in this span
func (p *ParseSourceSpan) String() string {
	return p.Start.File.Content[p.Start.Offset:p.End.Offset]
}

// FullString returns the source code in this span including leading trivia
func (p *ParseSourceSpan) FullString() string {
	return p.Start.File.Content[p.FullStart.Offset:p.End.Offset]
}

// Len returns the length of the span in bytes, excluding leading trivia
func (p *ParseSourceSpan) Len() int {
	return p.End.Offset - p.Start.Offset
}

// ErrorKind classifies structural scanning errors
type ErrorKind int

const (
	// ErrorKindUnterminatedConstruct: end of input inside a tag, raw text,
	// comment, expression or open block.
	ErrorKindUnterminatedConstruct ErrorKind = iota
	// ErrorKindMismatchedClose: an end tag or block end/branch that does not
	// match anything open.
	ErrorKindMismatchedClose
	// ErrorKindInvalidHeadShape: a block or tag head that matches no
	// recognized form.
	ErrorKindInvalidHeadShape
	// ErrorKindUnexpectedCharacter: a stray byte inside a tag.
	ErrorKindUnexpectedCharacter
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnterminatedConstruct:
		return "UnterminatedConstruct"
	case ErrorKindMismatchedClose:
		return "MismatchedClose"
	case ErrorKindInvalidHeadShape:
		return "InvalidHeadShape"
	case ErrorKindUnexpectedCharacter:
		return "UnexpectedCharacter"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError represents a parse error
type ParseError struct {
	Span *ParseSourceSpan
	Msg  string
	Kind ErrorKind
}

// NewParseError creates a new ParseError
func NewParseError(span *ParseSourceSpan, kind ErrorKind, msg string) *ParseError {
	return &ParseError{Span: span, Msg: msg, Kind: kind}
}

// Error implements the error interface
func (p *ParseError) Error() string {
	return p.String()
}

// ContextualMessage returns the error message with context
func (p *ParseError) ContextualMessage() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	ctx := p.Span.Start.GetContext(100, 3)
	if ctx != nil {
		return fmt.Sprintf(`%s ("%s[ERROR ->]%s")`, p.Msg, ctx.Before, ctx.After)
	}
	return p.Msg
}

// String returns a string representation of the error
func (p *ParseError) String() string {
	if p.Span == nil {
		return p.Msg
	}
	details := ""
	if p.Span.Details != nil {
		details = fmt.Sprintf(", %s", *p.Span.Details)
	}
	if p.Span.Start == nil {
		return fmt.Sprintf("%s%s", p.ContextualMessage(), details)
	}
	return fmt.Sprintf("%s: %s%s", p.ContextualMessage(), p.Span.Start, details)
}

// JoinErrors renders a list of parse errors one per line
func JoinErrors(errs []*ParseError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "\n")
}
