package ml_parser

import (
	"fmt"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/core"
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

// consumeHead dispatches "{#", "{:", "{/" and "{@" to the layer's head
// recognizers. It returns nil when the layer has none for the next byte.
func (t *Tokenizer) consumeHead(start *PlainCharacterCursor) *Token {
	sigil := t.cursor.PeekAt(1)
	for _, head := range t.layer.Heads {
		if int(head.Sigil) != sigil {
			continue
		}
		switch head.Kind {
		case HeadBlockStart:
			return t.consumeBlockStart(start)
		case HeadBlockBranch:
			return t.consumeBlockBranch(start)
		case HeadBlockEnd:
			return t.consumeBlockEnd(start)
		case HeadTag:
			return t.consumeTag(start, nil)
		}
	}
	return nil
}

// consumeMisplacedHead rejects an expression whose first non-space byte is
// a head sigil the layer does not recognize there, such as "{#if a}" on a
// layer without blocks. It returns nil for any other expression.
func (t *Tokenizer) consumeMisplacedHead(start *PlainCharacterCursor) *Token {
	c := t.cursor
	i := 1
	for core.IsWhitespace(c.PeekAt(i)) {
		i++
	}
	switch sigil := c.PeekAt(i); sigil {
	case core.CharHASH, core.CharCOLON, core.CharSLASH, core.CharAT:
		c.Advance()
		return t.invalidHead(start, nil, fmt.Sprintf("Unexpected %q at the start of an expression", string(rune(sigil))))
	}
	return nil
}

// readKind consumes a run of ASCII letters and returns its span.
func (t *Tokenizer) readKind() *util.ParseSourceSpan {
	c := t.cursor
	from := c.Offset()
	for core.IsAsciiLetter(c.Peek()) {
		c.Advance()
	}
	return c.spanAt(from, c.Offset())
}

// readSegment scans an expression fragment up to stop and returns its
// trimmed span, or nil when it is empty.
func (t *Tokenizer) readSegment(stop StopFunc) (*util.ParseSourceSpan, bool) {
	c := t.cursor
	c.SkipWhitespace()
	from := c.Offset()
	terminated := NewExpressionScanner(c).Scan(stop)
	from, to := trimSpace(t.file.Content, from, c.Offset())
	if from == to {
		return nil, terminated
	}
	return c.spanAt(from, to), terminated
}

// finishHead expects the closing brace of a head. Anything else up to the
// matching brace is reported as an invalid head.
func (t *Tokenizer) finishHead(start *PlainCharacterCursor, what string) {
	c := t.cursor
	c.SkipWhitespace()
	if c.Peek() == core.CharRBRACE {
		c.Advance()
		return
	}
	if c.AtEOF() {
		t.reportError(util.ErrorKindUnterminatedConstruct, fmt.Sprintf("Unterminated %s", what), start)
		return
	}
	terminated := NewExpressionScanner(c).Scan(nil)
	if terminated {
		c.Advance()
	}
	t.reportError(util.ErrorKindInvalidHeadShape, fmt.Sprintf("Invalid %s", what), start)
}

// invalidHead skips to the end of a head that names no known kind.
func (t *Tokenizer) invalidHead(start, fullStart *PlainCharacterCursor, msg string) *Token {
	c := t.cursor
	if NewExpressionScanner(c).Scan(nil) {
		c.Advance()
	}
	t.reportError(util.ErrorKindInvalidHeadShape, msg, start)
	return t.emit(TokenTypeERROR, []string{msg}, nil, start, fullStart)
}

func (t *Tokenizer) consumeBlockStart(start *PlainCharacterCursor) *Token {
	c := t.cursor
	c.AdvanceBy(2)
	kindSpan := t.readKind()
	kind := kindSpan.String()
	if !t.layer.isBlockKind(kind) {
		return t.invalidHead(start, nil, fmt.Sprintf("Unknown block type \"{#%s}\"", kind))
	}
	fields := []Field{{FieldKind, kindSpan}}
	what := fmt.Sprintf("{#%s} block", kind)

	var stop StopFunc
	switch kind {
	case "each":
		stop = StopAtKeywords("as")
	case "await":
		stop = StopAtKeywords("then", "catch")
	}
	expression, terminated := t.readSegment(stop)
	if expression != nil {
		fields = append(fields, Field{FieldExpression, expression})
	}

	if terminated && c.Peek() != core.CharRBRACE {
		c.SkipWhitespace()
		switch kind {
		case "each":
			fields = t.readEachClause(start, fields)
		case "await":
			fields = t.readAwaitClause(fields)
		}
	}
	t.finishHead(start, what)

	t.state.Blocks = append(t.state.Blocks, OpenBlock{Kind: kind, Depth: len(t.state.Elements)})
	return t.emit(TokenTypeBLOCK_START, []string{kind, t.lang()}, fields, start, nil)
}

// readEachClause reads "as binding[, index] [(key)]".
func (t *Tokenizer) readEachClause(start *PlainCharacterCursor, fields []Field) []Field {
	c := t.cursor
	c.AdvanceBy(len("as"))

	binding, _ := t.readSegment(StopAtBytes(core.CharCOMMA, core.CharLPAREN))
	if binding == nil {
		t.reportError(util.ErrorKindInvalidHeadShape, "Expected a binding after \"as\"", start)
	} else {
		fields = append(fields, Field{FieldBinding, binding})
	}

	if c.Peek() == core.CharCOMMA {
		c.Advance()
		index, _ := t.readSegment(StopAtBytes(core.CharLPAREN))
		if index == nil {
			t.reportError(util.ErrorKindInvalidHeadShape, "Expected an index after \",\"", start)
		} else {
			fields = append(fields, Field{FieldIndex, index})
		}
	}

	if c.Peek() == core.CharLPAREN {
		c.Advance()
		key, terminated := t.readSegment(StopAtBytes(core.CharRPAREN))
		if key != nil {
			fields = append(fields, Field{FieldKey, key})
		}
		if terminated && c.Peek() == core.CharRPAREN {
			c.Advance()
		} else {
			t.reportError(util.ErrorKindInvalidHeadShape, "Expected \")\" after the key expression", start)
		}
	}
	return fields
}

// readAwaitClause reads "then [binding]" or "catch [binding]".
func (t *Tokenizer) readAwaitClause(fields []Field) []Field {
	c := t.cursor
	keyword := "then"
	if isWordAt(c, "catch") {
		keyword = "catch"
	}
	from := c.Offset()
	c.AdvanceBy(len(keyword))
	fields = append(fields, Field{FieldShorthand, c.spanAt(from, c.Offset())})

	if binding, _ := t.readSegment(nil); binding != nil {
		fields = append(fields, Field{FieldBinding, binding})
	}
	return fields
}

// peekBranchKind reads the kind of a "{:" head without consuming it.
func (t *Tokenizer) peekBranchKind() string {
	saved := t.cursor
	t.cursor = saved.Clone()
	defer func() { t.cursor = saved }()
	t.cursor.AdvanceBy(2)
	kind, _ := t.readBranchKind()
	return kind
}

// readBranchKind reads "else", "else if", "then" or "catch" and the span
// of the kind as written.
func (t *Tokenizer) readBranchKind() (string, *util.ParseSourceSpan) {
	c := t.cursor
	from := c.Offset()
	kind := t.readKind().String()
	if kind == "else" {
		ahead := c.Clone()
		ahead.SkipWhitespace()
		if isWordAt(ahead, "if") {
			ahead.AdvanceBy(len("if"))
			*c = *ahead
			kind = "else if"
		}
	}
	return kind, c.spanAt(from, c.Offset())
}

// closeElementsInBlock emits the implicit end tag of an element opened
// inside the innermost block when a branch or end of that block is next.
func (t *Tokenizer) closeElementsInBlock(matches func(OpenBlock) bool) *Token {
	block, ok := t.state.TopBlock()
	if !ok || !matches(block) || len(t.state.Elements) <= t.state.Floor() {
		return nil
	}
	return t.emitImplicitEndTag()
}

func (t *Tokenizer) consumeBlockBranch(start *PlainCharacterCursor) *Token {
	peeked := t.peekBranchKind()
	if token := t.closeElementsInBlock(func(b OpenBlock) bool {
		return t.layer.branchAllowed(b.Kind, peeked)
	}); token != nil {
		return token
	}

	c := t.cursor
	c.AdvanceBy(2)
	kind, kindSpan := t.readBranchKind()
	if !t.layer.isBranchKind(kind) {
		return t.invalidHead(start, nil, fmt.Sprintf("Unknown block branch \"{:%s}\"", kind))
	}
	fields := []Field{{FieldKind, kindSpan}}
	if expression, _ := t.readSegment(nil); expression != nil {
		fields = append(fields, Field{FieldExpression, expression})
	}
	t.finishHead(start, fmt.Sprintf("{:%s} branch", kind))

	block, ok := t.state.TopBlock()
	if !ok || !t.layer.branchAllowed(block.Kind, kind) {
		msg := fmt.Sprintf("Unexpected block branch \"{:%s}\"", kind)
		if ok {
			msg = fmt.Sprintf("Unexpected block branch \"{:%s}\" inside {#%s}", kind, block.Kind)
		}
		t.reportError(util.ErrorKindMismatchedClose, msg, start)
		return t.emit(TokenTypeERRONEOUS_BLOCK_BRANCH, []string{kind, t.lang()}, fields, start, nil)
	}
	return t.emit(TokenTypeBLOCK_BRANCH, []string{kind, t.lang()}, fields, start, nil)
}

func (t *Tokenizer) consumeBlockEnd(start *PlainCharacterCursor) *Token {
	ahead := t.cursor.Clone()
	ahead.AdvanceBy(2)
	from := ahead.Offset()
	for core.IsAsciiLetter(ahead.Peek()) {
		ahead.Advance()
	}
	peeked := t.file.Content[from:ahead.Offset()]
	if token := t.closeElementsInBlock(func(b OpenBlock) bool { return b.Kind == peeked }); token != nil {
		return token
	}

	c := t.cursor
	c.AdvanceBy(2)
	kindSpan := t.readKind()
	kind := kindSpan.String()
	if !t.layer.isBlockKind(kind) {
		return t.invalidHead(start, nil, fmt.Sprintf("Unknown block type \"{/%s}\"", kind))
	}
	t.finishHead(start, fmt.Sprintf("{/%s} block end", kind))
	fields := []Field{{FieldKind, kindSpan}}

	block, ok := t.state.TopBlock()
	if !ok || block.Kind != kind {
		msg := fmt.Sprintf("Unexpected block end \"{/%s}\"", kind)
		if ok {
			msg = fmt.Sprintf("Unexpected block end \"{/%s}\", expected \"{/%s}\"", kind, block.Kind)
		}
		t.reportError(util.ErrorKindMismatchedClose, msg, start)
		return t.emit(TokenTypeERRONEOUS_BLOCK_END, []string{kind}, fields, start, nil)
	}
	t.state.Blocks = t.state.Blocks[:len(t.state.Blocks)-1]
	return t.emit(TokenTypeBLOCK_END, []string{kind}, fields, start, nil)
}

// consumeTag reads "{@kind expression}". The expression must be separated
// from the kind by whitespace.
func (t *Tokenizer) consumeTag(start, fullStart *PlainCharacterCursor) *Token {
	c := t.cursor
	c.AdvanceBy(2)
	kindSpan := t.readKind()
	kind := kindSpan.String()
	if !t.layer.isTagKind(kind) {
		return t.invalidHead(start, fullStart, fmt.Sprintf("Unknown tag \"{@%s}\"", kind))
	}
	fields := []Field{{FieldKind, kindSpan}}
	what := fmt.Sprintf("{@%s} tag", kind)

	if core.IsWhitespace(c.Peek()) {
		if expression, _ := t.readSegment(nil); expression != nil {
			fields = append(fields, Field{FieldExpression, expression})
		}
	}
	t.finishHead(start, what)
	return t.emit(TokenTypeTAG, []string{kind, t.lang()}, fields, start, fullStart)
}
