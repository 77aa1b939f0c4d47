package ml_parser

import (
	"strings"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/core"
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

// AttributeKind distinguishes the syntactic forms of an attribute
type AttributeKind int

const (
	AttributeKindPlain AttributeKind = iota
	AttributeKindShorthand
	AttributeKindSpread
	AttributeKindDirective
)

var attributeKindNames = [...]string{"plain", "shorthand", "spread", "directive"}

func (k AttributeKind) String() string {
	return attributeKindNames[k]
}

// AttributeValueKind classifies the value of a plain or directive attribute
type AttributeValueKind int

const (
	ValueKindNone AttributeValueKind = iota
	ValueKindQuoted
	ValueKindUnquoted
	ValueKindExpression
	ValueKindMixed
)

var valueKindNames = [...]string{"none", "quoted", "unquoted", "expression", "mixed"}

func (k AttributeValueKind) String() string {
	return valueKindNames[k]
}

// ParseAttributeKind maps a name produced by AttributeKind.String back
func ParseAttributeKind(s string) AttributeKind {
	for i, name := range attributeKindNames {
		if name == s {
			return AttributeKind(i)
		}
	}
	return AttributeKindPlain
}

// ParseAttributeValueKind maps a name produced by AttributeValueKind.String
// back
func ParseAttributeValueKind(s string) AttributeValueKind {
	for i, name := range valueKindNames {
		if name == s {
			return AttributeValueKind(i)
		}
	}
	return ValueKindNone
}

// ValuePart is one ordered piece of an attribute value: a literal text run
// or a braced expression.
type ValuePart struct {
	Expression bool
	// Span covers the text run, or the braces of an expression.
	Span *util.ParseSourceSpan
	// Content is the trimmed interior of an expression; nil when empty.
	Content *util.ParseSourceSpan
}

// AttributeOccurrence is one classified attribute of a start tag
type AttributeOccurrence struct {
	Kind AttributeKind
	// Name covers the whole attribute name (plain and directive).
	Name       *util.ParseSourceSpan
	Directive  *util.ParseSourceSpan
	Identifier *util.ParseSourceSpan
	Modifiers  []*util.ParseSourceSpan
	ValueKind  AttributeValueKind
	// Value covers the whole value, including quotes.
	Value *util.ParseSourceSpan
	Parts []ValuePart
	// Expression is the trimmed interior of a shorthand or spread attribute.
	Expression *util.ParseSourceSpan
}

// fields flattens the occurrence into token fields, in source order. An
// expression part is a FieldExpression followed by its FieldContent.
func (a *AttributeOccurrence) fields() []Field {
	var fields []Field
	add := func(name string, span *util.ParseSourceSpan) {
		if span != nil {
			fields = append(fields, Field{name, span})
		}
	}
	add(FieldName, a.Name)
	add(FieldDirective, a.Directive)
	add(FieldIdentifier, a.Identifier)
	for _, m := range a.Modifiers {
		add(FieldModifier, m)
	}
	add(FieldValue, a.Value)
	for _, part := range a.Parts {
		if part.Expression {
			add(FieldExpression, part.Span)
			add(FieldContent, part.Content)
		} else {
			add(FieldText, part.Span)
		}
	}
	add(FieldContent, a.Expression)
	return fields
}

// OccurrenceFromToken rebuilds the classification carried by an ATTRIBUTE
// token.
func OccurrenceFromToken(token *Token) *AttributeOccurrence {
	a := &AttributeOccurrence{
		Kind:      ParseAttributeKind(token.Part(0)),
		ValueKind: ParseAttributeValueKind(token.Part(1)),
	}
	fields := token.Fields()
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		switch f.Name {
		case FieldName:
			a.Name = f.Span
		case FieldDirective:
			a.Directive = f.Span
		case FieldIdentifier:
			a.Identifier = f.Span
		case FieldModifier:
			a.Modifiers = append(a.Modifiers, f.Span)
		case FieldValue:
			a.Value = f.Span
		case FieldText:
			a.Parts = append(a.Parts, ValuePart{Span: f.Span})
		case FieldExpression:
			part := ValuePart{Expression: true, Span: f.Span}
			if i+1 < len(fields) && fields[i+1].Name == FieldContent {
				part.Content = fields[i+1].Span
				i++
			}
			a.Parts = append(a.Parts, part)
		case FieldContent:
			a.Expression = f.Span
		}
	}
	return a
}

func (t *Tokenizer) isAttributeNameChar(ch int) bool {
	switch ch {
	case core.CharEOF, core.CharDQ, core.CharSQ, core.CharLT, core.CharGT, core.CharSLASH, core.CharEQ:
		return false
	case core.CharLBRACE, core.CharRBRACE:
		return !t.layer.Expressions
	}
	return !core.IsWhitespace(ch)
}

func (t *Tokenizer) isUnquotedValueChar(ch int) bool {
	c := t.cursor
	switch ch {
	case core.CharEOF, core.CharDQ, core.CharSQ, core.CharLT, core.CharGT, core.CharEQ, core.CharBT:
		return false
	case core.CharSLASH:
		return c.PeekAt(1) != core.CharGT
	case core.CharLBRACE, core.CharRBRACE:
		return !t.layer.Expressions
	}
	return !core.IsWhitespace(ch)
}

// consumeAttribute classifies and consumes a named attribute.
func (t *Tokenizer) consumeAttribute(start, fullStart *PlainCharacterCursor) *Token {
	occurrence := t.classifyAttribute()
	t.markTypeScript(occurrence)
	parts := []string{occurrence.Kind.String(), occurrence.ValueKind.String(), t.lang()}
	return t.emit(TokenTypeATTRIBUTE, parts, occurrence.fields(), start, fullStart)
}

func (t *Tokenizer) classifyAttribute() *AttributeOccurrence {
	c := t.cursor
	nameStart := c.Offset()
	for t.isAttributeNameChar(c.Peek()) {
		c.Advance()
	}
	nameEnd := c.Offset()
	occurrence := &AttributeOccurrence{
		Kind: AttributeKindPlain,
		Name: c.spanAt(nameStart, nameEnd),
	}
	if t.layer.Directives {
		t.splitDirective(occurrence, nameStart, nameEnd)
	}

	// Whitespace around '=' belongs to the attribute only when a value
	// follows.
	ahead := c.Clone()
	ahead.SkipWhitespace()
	if ahead.Peek() != core.CharEQ {
		return occurrence
	}
	ahead.Advance()
	ahead.SkipWhitespace()
	*c = *ahead
	t.readValue(occurrence)
	return occurrence
}

// splitDirective recognizes "prefix:name|modifier|modifier".
func (t *Tokenizer) splitDirective(a *AttributeOccurrence, start, end int) {
	name := t.file.Content[start:end]
	colon := strings.IndexByte(name, ':')
	if colon <= 0 || colon == len(name)-1 || !isDirectivePrefix(name[:colon]) {
		return
	}
	c := t.cursor
	a.Kind = AttributeKindDirective
	a.Directive = c.spanAt(start, start+colon)

	rest := start + colon + 1
	segments := strings.Split(name[colon+1:], "|")
	a.Identifier = c.spanAt(rest, rest+len(segments[0]))
	offset := rest + len(segments[0]) + 1
	for _, modifier := range segments[1:] {
		if modifier != "" {
			a.Modifiers = append(a.Modifiers, c.spanAt(offset, offset+len(modifier)))
		}
		offset += len(modifier) + 1
	}
}

func isDirectivePrefix(s string) bool {
	if !core.IsIdentifierStart(int(s[0])) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !core.IsIdentifierPart(int(s[i])) && s[i] != '-' {
			return false
		}
	}
	return true
}

func (t *Tokenizer) readValue(a *AttributeOccurrence) {
	c := t.cursor
	valueStart := c.Clone()

	if quote := c.Peek(); quote == core.CharDQ || quote == core.CharSQ {
		a.ValueKind = ValueKindQuoted
		c.Advance()
		for !c.AtEOF() && c.Peek() != quote {
			if c.Peek() == core.CharLBRACE && t.layer.Expressions {
				a.Parts = append(a.Parts, t.readValueExpression())
				continue
			}
			textStart := c.Offset()
			for !c.AtEOF() && c.Peek() != quote && !(c.Peek() == core.CharLBRACE && t.layer.Expressions) {
				c.Advance()
			}
			a.Parts = append(a.Parts, ValuePart{Span: c.spanAt(textStart, c.Offset())})
		}
		if c.AtEOF() {
			t.reportError(util.ErrorKindUnterminatedConstruct, "Unterminated quoted attribute value", valueStart)
		} else {
			c.Advance()
		}
		a.Value = c.GetSpan(valueStart, nil)
		return
	}

	texts, expressions := 0, 0
	for {
		ch := c.Peek()
		if ch == core.CharLBRACE && t.layer.Expressions {
			a.Parts = append(a.Parts, t.readValueExpression())
			expressions++
			continue
		}
		if !t.isUnquotedValueChar(ch) {
			break
		}
		textStart := c.Offset()
		for t.isUnquotedValueChar(c.Peek()) {
			c.Advance()
		}
		a.Parts = append(a.Parts, ValuePart{Span: c.spanAt(textStart, c.Offset())})
		texts++
	}

	switch {
	case texts == 0 && expressions == 0:
		a.ValueKind = ValueKindNone
		return
	case texts == 0 && expressions == 1:
		a.ValueKind = ValueKindExpression
	case expressions == 0:
		a.ValueKind = ValueKindUnquoted
	default:
		a.ValueKind = ValueKindMixed
	}
	a.Value = c.GetSpan(valueStart, nil)
}

func (t *Tokenizer) readValueExpression() ValuePart {
	start := t.cursor.Clone()
	content, _ := t.readBraced(start, 0)
	return ValuePart{
		Expression: true,
		Span:       t.cursor.GetSpan(start, nil),
		Content:    content,
	}
}

// consumeBraceAttribute handles "{name}", "{...rest}" and, on layers with
// tag directives, "{@attach fn}" in attribute position.
func (t *Tokenizer) consumeBraceAttribute(start, fullStart *PlainCharacterCursor) *Token {
	c := t.cursor
	if c.PeekAt(1) == core.CharAT && t.layer.hasHead(HeadTag) {
		return t.consumeTag(start, fullStart)
	}

	if c.PeekAt(1) == core.CharPERIOD && c.PeekAt(2) == core.CharPERIOD && c.PeekAt(3) == core.CharPERIOD {
		content, _ := t.readBraced(start, len("..."))
		occurrence := &AttributeOccurrence{Kind: AttributeKindSpread, Expression: content}
		parts := []string{occurrence.Kind.String(), occurrence.ValueKind.String(), t.lang()}
		return t.emit(TokenTypeATTRIBUTE, parts, occurrence.fields(), start, fullStart)
	}

	content, _ := t.readBraced(start, 0)
	occurrence := &AttributeOccurrence{Kind: AttributeKindShorthand, Expression: content}
	parts := []string{occurrence.Kind.String(), occurrence.ValueKind.String(), t.lang()}
	return t.emit(TokenTypeATTRIBUTE, parts, occurrence.fields(), start, fullStart)
}

// markTypeScript switches later expressions to TypeScript when a script
// element declares lang="ts".
func (t *Tokenizer) markTypeScript(a *AttributeOccurrence) {
	if a.Kind != AttributeKindPlain || !strings.EqualFold(t.state.Pending, "script") {
		return
	}
	if a.Name.String() != "lang" || len(a.Parts) != 1 || a.Parts[0].Expression {
		return
	}
	switch a.Parts[0].Span.String() {
	case "ts", "typescript":
		t.state.TypeScript = true
	}
}
