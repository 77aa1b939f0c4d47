package ml_parser

import (
	"fmt"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeTEXT TokenType = iota
	TokenTypeENTITY
	TokenTypeCOMMENT
	TokenTypeDOCTYPE
	TokenTypeTAG_OPEN_START
	TokenTypeTAG_OPEN_END
	TokenTypeTAG_OPEN_END_VOID
	TokenTypeINCOMPLETE_TAG_OPEN
	TokenTypeTAG_CLOSE
	TokenTypeIMPLICIT_END_TAG
	TokenTypeERRONEOUS_END_TAG
	TokenTypeRAW_TEXT
	TokenTypeESCAPABLE_RAW_TEXT
	TokenTypeATTRIBUTE
	TokenTypeEXPRESSION
	TokenTypeBLOCK_START
	TokenTypeBLOCK_BRANCH
	TokenTypeBLOCK_END
	TokenTypeIMPLICIT_BLOCK_END
	TokenTypeERRONEOUS_BLOCK_BRANCH
	TokenTypeERRONEOUS_BLOCK_END
	TokenTypeTAG
	TokenTypeERROR
	TokenTypeEOF
)

var tokenTypeNames = [...]string{
	TokenTypeTEXT:                   "TEXT",
	TokenTypeENTITY:                 "ENTITY",
	TokenTypeCOMMENT:                "COMMENT",
	TokenTypeDOCTYPE:                "DOCTYPE",
	TokenTypeTAG_OPEN_START:         "TAG_OPEN_START",
	TokenTypeTAG_OPEN_END:           "TAG_OPEN_END",
	TokenTypeTAG_OPEN_END_VOID:      "TAG_OPEN_END_VOID",
	TokenTypeINCOMPLETE_TAG_OPEN:    "INCOMPLETE_TAG_OPEN",
	TokenTypeTAG_CLOSE:              "TAG_CLOSE",
	TokenTypeIMPLICIT_END_TAG:       "IMPLICIT_END_TAG",
	TokenTypeERRONEOUS_END_TAG:      "ERRONEOUS_END_TAG",
	TokenTypeRAW_TEXT:               "RAW_TEXT",
	TokenTypeESCAPABLE_RAW_TEXT:     "ESCAPABLE_RAW_TEXT",
	TokenTypeATTRIBUTE:              "ATTRIBUTE",
	TokenTypeEXPRESSION:             "EXPRESSION",
	TokenTypeBLOCK_START:            "BLOCK_START",
	TokenTypeBLOCK_BRANCH:           "BLOCK_BRANCH",
	TokenTypeBLOCK_END:              "BLOCK_END",
	TokenTypeIMPLICIT_BLOCK_END:     "IMPLICIT_BLOCK_END",
	TokenTypeERRONEOUS_BLOCK_BRANCH: "ERRONEOUS_BLOCK_BRANCH",
	TokenTypeERRONEOUS_BLOCK_END:    "ERRONEOUS_BLOCK_END",
	TokenTypeTAG:                    "TAG",
	TokenTypeERROR:                  "ERROR",
	TokenTypeEOF:                    "EOF",
}

func (t TokenType) String() string {
	if int(t) >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Field names used for the named sub-spans of a token.
const (
	FieldName       = "name"
	FieldNamespace  = "namespace"
	FieldObject     = "object"
	FieldProperty   = "property"
	FieldContent    = "content"
	FieldDirective  = "directive"
	FieldIdentifier = "identifier"
	FieldModifier   = "modifier"
	FieldValue      = "value"
	FieldText       = "text"
	FieldExpression = "expression"
	FieldKind       = "kind"
	FieldBinding    = "binding"
	FieldIndex      = "index"
	FieldKey        = "key"
	FieldShorthand  = "shorthand"
)

// Field is a named sub-span of a token
type Field struct {
	Name string
	Span *util.ParseSourceSpan
}

// Token is one lexical unit. Parts carry decoded or normalized values
// (lowercased tag names, decoded entities, block kinds); Fields carry
// the named source sub-spans in source order.
type Token struct {
	tokenType  TokenType
	parts      []string
	fields     []Field
	sourceSpan *util.ParseSourceSpan
}

// NewToken creates a new token
func NewToken(tokenType TokenType, parts []string, fields []Field, sourceSpan *util.ParseSourceSpan) *Token {
	return &Token{
		tokenType:  tokenType,
		parts:      parts,
		fields:     fields,
		sourceSpan: sourceSpan,
	}
}

// Type returns the token type
func (t *Token) Type() TokenType {
	return t.tokenType
}

// Parts returns the token parts
func (t *Token) Parts() []string {
	return t.parts
}

// Part returns the i-th part or "" when absent
func (t *Token) Part(i int) string {
	if i < len(t.parts) {
		return t.parts[i]
	}
	return ""
}

// Fields returns the named sub-spans in source order
func (t *Token) Fields() []Field {
	return t.fields
}

// Field returns the first sub-span with the given name, or nil
func (t *Token) Field(name string) *util.ParseSourceSpan {
	for _, f := range t.fields {
		if f.Name == name {
			return f.Span
		}
	}
	return nil
}

// FieldText returns the source text of the named sub-span, or ""
func (t *Token) FieldText(name string) string {
	if span := t.Field(name); span != nil {
		return span.String()
	}
	return ""
}

// FieldsNamed returns every sub-span with the given name
func (t *Token) FieldsNamed(name string) []*util.ParseSourceSpan {
	var spans []*util.ParseSourceSpan
	for _, f := range t.fields {
		if f.Name == name {
			spans = append(spans, f.Span)
		}
	}
	return spans
}

// SourceSpan returns the source span
func (t *Token) SourceSpan() *util.ParseSourceSpan {
	return t.sourceSpan
}

func (t *Token) String() string {
	return fmt.Sprintf("%s %q", t.tokenType, t.sourceSpan.String())
}
