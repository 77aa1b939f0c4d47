package ml_parser

import (
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/core"
)

type exprFrameKind uint8

const (
	frameCode exprFrameKind = iota
	frameSubstitution
	frameSingleQuote
	frameDoubleQuote
	frameTemplate
	frameLineComment
	frameBlockComment
)

type exprFrame struct {
	kind  exprFrameKind
	depth int
}

// StopFunc is consulted before each byte while the scanner is in top-level
// code at nesting depth zero. Returning true ends the scan at the cursor.
type StopFunc func(c *PlainCharacterCursor) bool

// ExpressionScanner finds the extent of JavaScript embedded in markup
// without parsing it. It tracks bracket nesting and a stack of
// sub-states (strings, template literals with nested substitutions, and
// comments) so that braces inside them are not mistaken for the end of the
// expression.
type ExpressionScanner struct {
	cursor *PlainCharacterCursor
	frames []exprFrame
}

// NewExpressionScanner creates a scanner reading from cursor
func NewExpressionScanner(cursor *PlainCharacterCursor) *ExpressionScanner {
	return &ExpressionScanner{cursor: cursor}
}

// Scan advances until an unnested '}' in top-level code, a stop condition,
// or end of input. It reports whether the scan ended before end of input;
// the cursor is left on the terminating byte.
func (e *ExpressionScanner) Scan(stop StopFunc) bool {
	c := e.cursor
	e.frames = append(e.frames[:0], exprFrame{kind: frameCode})
	for !c.AtEOF() {
		top := &e.frames[len(e.frames)-1]
		ch := c.Peek()

		switch top.kind {
		case frameCode, frameSubstitution:
			if top.kind == frameCode && top.depth == 0 && stop != nil && stop(c) {
				return true
			}
			switch ch {
			case core.CharLPAREN, core.CharLBRACKET, core.CharLBRACE:
				top.depth++
			case core.CharRPAREN, core.CharRBRACKET:
				if top.depth > 0 {
					top.depth--
				}
			case core.CharRBRACE:
				if top.depth == 0 {
					if top.kind == frameCode {
						return true
					}
					e.pop()
					c.Advance()
					continue
				}
				top.depth--
			case core.CharSQ:
				e.push(frameSingleQuote)
			case core.CharDQ:
				e.push(frameDoubleQuote)
			case core.CharBT:
				e.push(frameTemplate)
			case core.CharSLASH:
				switch c.PeekAt(1) {
				case core.CharSLASH:
					e.push(frameLineComment)
					c.AdvanceBy(2)
					continue
				case core.CharSTAR:
					e.push(frameBlockComment)
					c.AdvanceBy(2)
					continue
				}
			}
			c.Advance()

		case frameSingleQuote, frameDoubleQuote:
			quote := core.CharSQ
			if top.kind == frameDoubleQuote {
				quote = core.CharDQ
			}
			switch {
			case ch == core.CharBACKSLASH:
				c.AdvanceBy(2)
				continue
			case ch == quote, ch == core.CharLF:
				// A newline ends an unterminated string literal.
				e.pop()
			}
			c.Advance()

		case frameTemplate:
			switch {
			case ch == core.CharBACKSLASH:
				c.AdvanceBy(2)
				continue
			case ch == core.CharBT:
				e.pop()
			case ch == core.CharDollar && c.PeekAt(1) == core.CharLBRACE:
				e.push(frameSubstitution)
				c.AdvanceBy(2)
				continue
			}
			c.Advance()

		case frameLineComment:
			if ch == core.CharLF {
				e.pop()
			}
			c.Advance()

		case frameBlockComment:
			if ch == core.CharSTAR && c.PeekAt(1) == core.CharSLASH {
				e.pop()
				c.AdvanceBy(2)
				continue
			}
			c.Advance()
		}
	}
	return false
}

func (e *ExpressionScanner) push(kind exprFrameKind) {
	e.frames = append(e.frames, exprFrame{kind: kind})
}

func (e *ExpressionScanner) pop() {
	if len(e.frames) > 1 {
		e.frames = e.frames[:len(e.frames)-1]
	}
}

// StopAtBytes stops before any of the given bytes.
func StopAtBytes(chars ...int) StopFunc {
	return func(c *PlainCharacterCursor) bool {
		ch := c.Peek()
		for _, stop := range chars {
			if ch == stop {
				return true
			}
		}
		return false
	}
}

// StopAtKeywords stops on whitespace that is followed by one of the
// keywords as a whole word.
func StopAtKeywords(keywords ...string) StopFunc {
	return func(c *PlainCharacterCursor) bool {
		if !core.IsWhitespace(c.Peek()) {
			return false
		}
		_, ok := keywordAfterWhitespace(c, keywords)
		return ok
	}
}

// keywordAfterWhitespace skips whitespace on a copy of c and reports which
// keyword, if any, follows as a whole word.
func keywordAfterWhitespace(c *PlainCharacterCursor, keywords []string) (string, bool) {
	ahead := c.Clone()
	ahead.SkipWhitespace()
	for _, kw := range keywords {
		if isWordAt(ahead, kw) {
			return kw, true
		}
	}
	return "", false
}

// isWordAt reports whether word starts at the cursor and is not followed by
// an identifier character.
func isWordAt(c *PlainCharacterCursor, word string) bool {
	return c.HasPrefix(word) && !core.IsIdentifierPart(c.PeekAt(len(word)))
}

// trimSpace narrows [start, end) of input to exclude ASCII whitespace at
// both ends.
func trimSpace(input string, start, end int) (int, int) {
	for start < end && core.IsWhitespace(int(input[start])) {
		start++
	}
	for end > start && core.IsWhitespace(int(input[end-1])) {
		end--
	}
	return start, end
}
