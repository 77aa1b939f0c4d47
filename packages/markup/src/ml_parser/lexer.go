package ml_parser

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/core"
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

// TokenizeOptions configures tokenization
type TokenizeOptions struct {
	// Layer selects the language layer. Defaults to LayerHTML.
	Layer *Layer
	// Range restricts scanning to part of the file.
	Range *LexerRange
	// Strict stops tokenization at the first error.
	Strict *bool
	// TypeScript starts the scan with TypeScript expressions.
	TypeScript *bool
	// Checkpoints records a resumable checkpoint after every token.
	Checkpoints *bool
}

// TokenizeResult represents the result of tokenization
type TokenizeResult struct {
	Tokens      []*Token
	Errors      []*util.ParseError
	Checkpoints []Checkpoint
}

// Tokenize tokenizes source text
func Tokenize(source, url string, options TokenizeOptions) *TokenizeResult {
	return TokenizeFile(util.NewParseSourceFile(source, url), options)
}

// TokenizeFile tokenizes a source file
func TokenizeFile(file *util.ParseSourceFile, options TokenizeOptions) *TokenizeResult {
	tokenizer := NewTokenizer(file, options)
	if options.TypeScript != nil {
		tokenizer.state.TypeScript = *options.TypeScript
	}
	return tokenizer.run(options)
}

func (t *Tokenizer) run(options TokenizeOptions) *TokenizeResult {
	strict := options.Strict != nil && *options.Strict
	record := options.Checkpoints != nil && *options.Checkpoints

	result := &TokenizeResult{}
	for {
		token := t.Next()
		if token == nil {
			break
		}
		result.Tokens = append(result.Tokens, token)
		if record {
			result.Checkpoints = append(result.Checkpoints, t.Checkpoint())
		}
		if strict && len(t.errors) > 0 {
			break
		}
	}
	result.Errors = t.errors
	return result
}

// Tokenizer scans one file. Everything that influences the next token lives
// in its State, so a Tokenizer can be rebuilt from a checkpoint.
type Tokenizer struct {
	file   *util.ParseSourceFile
	cursor *PlainCharacterCursor
	layer  *Layer
	state  State
	errors []*util.ParseError
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(file *util.ParseSourceFile, options TokenizeOptions) *Tokenizer {
	layer := options.Layer
	if layer == nil {
		layer = &LayerHTML
	}
	start, end := 0, len(file.Content)
	if options.Range != nil {
		start, end = options.Range.StartPos, options.Range.EndPos
	}
	return &Tokenizer{
		file:   file,
		cursor: NewPlainCharacterCursor(file, start, end),
		layer:  layer,
	}
}

// NextToken scans a single token of file at pos, starting from state. It is
// a pure function of its inputs: the returned state is a fresh value and
// state is not modified.
func NextToken(layer *Layer, state State, file *util.ParseSourceFile, pos int) (*Token, State, []*util.ParseError) {
	t := &Tokenizer{
		file:   file,
		cursor: NewPlainCharacterCursor(file, pos, len(file.Content)),
		layer:  layer,
		state:  state.Clone(),
	}
	token := t.Next()
	return token, t.state, t.errors
}

// State returns a copy of the current scanner state
func (t *Tokenizer) State() State {
	return t.state.Clone()
}

// Offset returns the byte offset of the next token
func (t *Tokenizer) Offset() int {
	return t.cursor.Offset()
}

// Errors returns the errors reported so far
func (t *Tokenizer) Errors() []*util.ParseError {
	return t.errors
}

// Next returns the next token, or nil once EOF has been returned
func (t *Tokenizer) Next() *Token {
	if t.state.Done {
		return nil
	}
	switch t.state.Mode {
	case ModeTagOpen:
		return t.scanTagOpen()
	case ModeRawText:
		return t.scanRawText(false)
	case ModeEscapableRawText:
		return t.scanRawText(true)
	}
	t.state.Mode = ModeData
	return t.scanData()
}

func (t *Tokenizer) scanData() *Token {
	c := t.cursor
	if c.AtEOF() {
		return t.scanEOF()
	}
	start := c.Clone()
	switch c.Peek() {
	case core.CharLT:
		switch {
		case c.HasPrefix("<!--"):
			return t.consumeComment(start)
		case c.HasPrefixFold("<!doctype"):
			return t.consumeDoctype(start)
		case c.PeekAt(1) == core.CharSLASH && isTagNameStart(c.PeekAt(2)):
			return t.consumeTagClose(start)
		case isTagNameStart(c.PeekAt(1)):
			return t.consumeTagOpenStart(start)
		}
	case core.CharLBRACE:
		if t.layer.Expressions {
			if token := t.consumeHead(start); token != nil {
				return token
			}
			if token := t.consumeMisplacedHead(start); token != nil {
				return token
			}
			return t.consumeExpression(start)
		}
	case core.CharAMPERSAND:
		if entityLength(c) > 0 {
			return t.consumeEntity(start)
		}
	}
	return t.consumeText(start)
}

func (t *Tokenizer) isTextEnd() bool {
	c := t.cursor
	switch c.Peek() {
	case core.CharLT:
		return c.HasPrefix("<!--") || c.HasPrefixFold("<!doctype") ||
			(c.PeekAt(1) == core.CharSLASH && isTagNameStart(c.PeekAt(2))) ||
			isTagNameStart(c.PeekAt(1))
	case core.CharLBRACE:
		return t.layer.Expressions
	case core.CharAMPERSAND:
		return entityLength(c) > 0
	}
	return false
}

func (t *Tokenizer) consumeText(start *PlainCharacterCursor) *Token {
	c := t.cursor
	c.Advance()
	for !c.AtEOF() && !t.isTextEnd() {
		c.Advance()
	}
	text := c.GetChars(start)
	return t.emit(TokenTypeTEXT, []string{text}, nil, start, nil)
}

// entityLength returns the length of the character reference at the cursor,
// or 0 if there is none.
func entityLength(c *PlainCharacterCursor) int {
	if c.Peek() != core.CharAMPERSAND {
		return 0
	}
	n := 1
	if c.PeekAt(n) == core.CharHASH {
		n++
		count := 0
		if x := c.PeekAt(n); x == core.CharX || x == core.CharLowerX {
			n++
			for count < 6 && core.IsAsciiHexDigit(c.PeekAt(n)) {
				n++
				count++
			}
		} else {
			for count < 7 && core.IsDigit(c.PeekAt(n)) {
				n++
				count++
			}
		}
		if count == 0 {
			return 0
		}
	} else {
		if !core.IsAsciiLetter(c.PeekAt(n)) {
			return 0
		}
		for core.IsAlphanumeric(c.PeekAt(n)) {
			n++
		}
	}
	if c.PeekAt(n) == core.CharSEMICOLON {
		n++
	}
	return n
}

func (t *Tokenizer) consumeEntity(start *PlainCharacterCursor) *Token {
	t.cursor.AdvanceBy(entityLength(t.cursor))
	raw := t.cursor.GetChars(start)
	return t.emit(TokenTypeENTITY, []string{html.UnescapeString(raw), raw}, nil, start, nil)
}

func (t *Tokenizer) consumeComment(start *PlainCharacterCursor) *Token {
	c := t.cursor
	c.AdvanceBy(len("<!--"))
	contentStart := c.Offset()
	dashes := 0
	for !c.AtEOF() {
		ch := c.Peek()
		c.Advance()
		switch {
		case ch == core.CharMINUS:
			dashes++
		case ch == core.CharGT && dashes >= 2:
			content := c.spanAt(contentStart, c.Offset()-3)
			return t.emit(TokenTypeCOMMENT, []string{content.String()}, []Field{{FieldContent, content}}, start, nil)
		default:
			dashes = 0
		}
	}
	t.reportError(util.ErrorKindUnterminatedConstruct, "Unterminated comment", start)
	content := c.spanAt(contentStart, c.Offset())
	return t.emit(TokenTypeCOMMENT, []string{content.String()}, []Field{{FieldContent, content}}, start, nil)
}

func (t *Tokenizer) consumeDoctype(start *PlainCharacterCursor) *Token {
	c := t.cursor
	c.AdvanceBy(len("<!doctype"))
	contentStart := c.Offset()
	for !c.AtEOF() && c.Peek() != core.CharGT {
		c.Advance()
	}
	contentEnd := c.Offset()
	if c.AtEOF() {
		t.reportError(util.ErrorKindUnterminatedConstruct, "Unterminated doctype", start)
	} else {
		c.Advance()
	}
	from, to := trimSpace(t.file.Content, contentStart, contentEnd)
	content := c.spanAt(from, to)
	return t.emit(TokenTypeDOCTYPE, []string{content.String()}, []Field{{FieldContent, content}}, start, nil)
}

func isTagNameStart(ch int) bool {
	return core.IsAsciiLetter(ch)
}

func isTagNameChar(ch int) bool {
	return core.IsAlphanumeric(ch) || ch == core.CharMINUS || ch == core.CharUnderscore
}

// readTagName consumes a tag name and returns it with its named sub-spans.
func (t *Tokenizer) readTagName() (string, []Field) {
	c := t.cursor
	start := c.Offset()
	segment := func() {
		for isTagNameChar(c.Peek()) {
			c.Advance()
		}
	}
	segment()

	switch {
	case c.Peek() == core.CharCOLON && isTagNameStart(c.PeekAt(1)):
		nsEnd := c.Offset()
		c.Advance()
		localStart := c.Offset()
		segment()
		if !t.layer.NamespacedTags {
			for c.Peek() == core.CharCOLON && isTagNameStart(c.PeekAt(1)) {
				c.Advance()
				segment()
			}
			return c.input[start:c.Offset()], []Field{{FieldName, c.spanAt(start, c.Offset())}}
		}
		return c.input[start:c.Offset()], []Field{
			{FieldNamespace, c.spanAt(start, nsEnd)},
			{FieldName, c.spanAt(localStart, c.Offset())},
		}

	case c.Peek() == core.CharPERIOD && t.layer.DottedTags && isTagNameStart(c.PeekAt(1)):
		fields := []Field{{FieldObject, c.spanAt(start, c.Offset())}}
		for c.Peek() == core.CharPERIOD && isTagNameStart(c.PeekAt(1)) {
			c.Advance()
			propStart := c.Offset()
			segment()
			fields = append(fields, Field{FieldProperty, c.spanAt(propStart, c.Offset())})
		}
		return c.input[start:c.Offset()], fields
	}
	return c.input[start:c.Offset()], []Field{{FieldName, c.spanAt(start, c.Offset())}}
}

func (t *Tokenizer) consumeTagOpenStart(start *PlainCharacterCursor) *Token {
	t.cursor.Advance()
	name, fields := t.readTagName()

	if closes := t.state.Elements.OnStartTagAboutToOpen(name, t.state.Floor()); len(closes) > 0 {
		*t.cursor = *start
		return t.emitImplicitEndTag()
	}

	t.state.Mode = ModeTagOpen
	t.state.Pending = name
	return t.emit(TokenTypeTAG_OPEN_START, []string{name}, fields, start, nil)
}

func (t *Tokenizer) consumeTagClose(start *PlainCharacterCursor) *Token {
	c := t.cursor
	c.AdvanceBy(2)
	name, fields := t.readTagName()

	above, ok := t.state.Elements.OnEndTagSeen(name, t.state.Floor())
	if ok && above > 0 {
		*t.cursor = *start
		return t.emitImplicitEndTag()
	}

	c.SkipWhitespace()
	for !c.AtEOF() && c.Peek() != core.CharGT && c.Peek() != core.CharLT {
		c.Advance()
	}
	if c.Peek() == core.CharGT {
		c.Advance()
	} else {
		t.reportError(util.ErrorKindUnterminatedConstruct, fmt.Sprintf("Unterminated closing tag \"%s\"", name), start)
	}

	if !ok {
		t.reportError(util.ErrorKindMismatchedClose,
			fmt.Sprintf("Unexpected closing tag \"%s\". It may happen when the tag has already been closed by another tag.", name), start)
		return t.emit(TokenTypeERRONEOUS_END_TAG, []string{name}, fields, start, nil)
	}
	t.state.Elements.Pop()
	return t.emit(TokenTypeTAG_CLOSE, []string{name}, fields, start, nil)
}

// emitImplicitEndTag pops the innermost element and returns a zero-width
// token at the cursor.
func (t *Tokenizer) emitImplicitEndTag() *Token {
	name := t.state.Elements.Pop()
	return t.emit(TokenTypeIMPLICIT_END_TAG, []string{name}, nil, t.cursor.Clone(), nil)
}

func (t *Tokenizer) scanTagOpen() *Token {
	c := t.cursor
	fullStart := c.Clone()
	c.SkipWhitespace()
	start := c.Clone()

	switch {
	case c.AtEOF(), c.Peek() == core.CharLT:
		t.reportError(util.ErrorKindUnterminatedConstruct,
			fmt.Sprintf("Opening tag \"%s\" not terminated.", t.state.Pending), start)
		name := t.state.Pending
		t.state.Pending = ""
		t.state.Mode = ModeData
		return t.emit(TokenTypeINCOMPLETE_TAG_OPEN, []string{name}, nil, start, fullStart)

	case c.Peek() == core.CharGT:
		c.Advance()
		return t.finishStartTag(TokenTypeTAG_OPEN_END, start, fullStart)

	case c.Peek() == core.CharSLASH && c.PeekAt(1) == core.CharGT:
		c.AdvanceBy(2)
		return t.finishStartTag(TokenTypeTAG_OPEN_END_VOID, start, fullStart)

	case c.Peek() == core.CharLBRACE && t.layer.Expressions:
		return t.consumeBraceAttribute(start, fullStart)

	case t.isAttributeNameChar(c.Peek()):
		return t.consumeAttribute(start, fullStart)
	}

	c.Advance()
	t.reportError(util.ErrorKindUnexpectedCharacter,
		fmt.Sprintf("Unexpected character \"%s\"", c.GetChars(start)), start)
	return t.emit(TokenTypeERROR, []string{c.GetChars(start)}, nil, start, fullStart)
}

func (t *Tokenizer) finishStartTag(tokenType TokenType, start, fullStart *PlainCharacterCursor) *Token {
	name := t.state.Pending
	t.state.Pending = ""
	t.state.Mode = ModeData
	if t.state.Elements.OnStartTagAccepted(name, tokenType == TokenTypeTAG_OPEN_END_VOID) {
		switch GetHtmlTagDefinition(name).GetContentType() {
		case TagContentTypeRAW_TEXT:
			t.state.Mode = ModeRawText
		case TagContentTypeESCAPABLE_RAW_TEXT:
			t.state.Mode = ModeEscapableRawText
		}
	}
	return t.emit(tokenType, []string{name}, nil, start, fullStart)
}

func (t *Tokenizer) scanRawText(escapable bool) *Token {
	c := t.cursor
	start := c.Clone()
	name := t.state.Elements.Top()
	if name == "" {
		t.state.Mode = ModeData
		return t.scanData()
	}
	closing := "</" + name

	for !c.AtEOF() {
		if c.Peek() == core.CharLT && c.HasPrefixFold(closing) {
			next := c.PeekAt(len(closing))
			if next == core.CharEOF || next == core.CharGT || next == core.CharSLASH || core.IsWhitespace(next) {
				break
			}
		}
		c.Advance()
	}
	if c.AtEOF() {
		t.reportError(util.ErrorKindUnterminatedConstruct,
			fmt.Sprintf("Unterminated content of \"%s\"", name), start)
	}
	t.state.Mode = ModeData
	if c.Diff(start) == 0 {
		return t.scanData()
	}

	raw := c.GetChars(start)
	if escapable {
		return t.emit(TokenTypeESCAPABLE_RAW_TEXT, []string{html.UnescapeString(raw)}, nil, start, nil)
	}
	return t.emit(TokenTypeRAW_TEXT, []string{raw}, nil, start, nil)
}

func (t *Tokenizer) scanEOF() *Token {
	start := t.cursor.Clone()
	if len(t.state.Elements) > t.state.Floor() {
		return t.emitImplicitEndTag()
	}
	if block, ok := t.state.TopBlock(); ok {
		t.state.Blocks = t.state.Blocks[:len(t.state.Blocks)-1]
		t.reportError(util.ErrorKindUnterminatedConstruct,
			fmt.Sprintf("Unclosed block {#%s}", block.Kind), start)
		return t.emit(TokenTypeIMPLICIT_BLOCK_END, []string{block.Kind}, nil, start, nil)
	}
	t.state.Done = true
	return t.emit(TokenTypeEOF, nil, nil, start, nil)
}

// consumeExpression reads "{...}" in text position.
func (t *Tokenizer) consumeExpression(start *PlainCharacterCursor) *Token {
	content, _ := t.readBraced(start, 0)
	var fields []Field
	if content != nil {
		fields = []Field{{FieldContent, content}}
	}
	return t.emit(TokenTypeEXPRESSION, []string{t.lang()}, fields, start, nil)
}

// readBraced consumes "{", prefix further bytes, the interior and "}". It
// returns the trimmed interior span (nil when empty) and whether the closing
// brace was found.
func (t *Tokenizer) readBraced(start *PlainCharacterCursor, prefix int) (*util.ParseSourceSpan, bool) {
	c := t.cursor
	c.AdvanceBy(1 + prefix)
	interiorStart := c.Offset()

	prev := t.state.Mode
	t.state.Mode = ModeExpression
	terminated := NewExpressionScanner(c).Scan(nil)
	t.state.Mode = prev

	from, to := trimSpace(t.file.Content, interiorStart, c.Offset())
	if terminated {
		c.Advance()
	} else {
		t.reportError(util.ErrorKindUnterminatedConstruct, "Unterminated expression", start)
	}
	if from == to {
		return nil, terminated
	}
	return c.spanAt(from, to), terminated
}

func (t *Tokenizer) lang() string {
	if t.state.TypeScript {
		return "ts"
	}
	return "js"
}

func (t *Tokenizer) emit(tokenType TokenType, parts []string, fields []Field, start, fullStart *PlainCharacterCursor) *Token {
	return NewToken(tokenType, parts, fields, t.cursor.GetSpan(start, fullStart))
}

func (t *Tokenizer) reportError(kind util.ErrorKind, msg string, start *PlainCharacterCursor) {
	t.errors = append(t.errors, util.NewParseError(t.cursor.GetSpan(start, nil), kind, msg))
}
