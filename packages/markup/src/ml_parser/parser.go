package ml_parser

import (
	"golang.org/x/net/html"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

// ParseTreeResult represents the result of parsing a tree
type ParseTreeResult struct {
	RootNodes []Node
	Errors    []*util.ParseError
}

// NewParseTreeResult creates a new ParseTreeResult
func NewParseTreeResult(rootNodes []Node, errors []*util.ParseError) *ParseTreeResult {
	return &ParseTreeResult{
		RootNodes: rootNodes,
		Errors:    errors,
	}
}

// Parser builds a markup tree for one language layer
type Parser struct {
	Layer *Layer
}

// NewParser creates a new Parser
func NewParser(layer *Layer) *Parser {
	return &Parser{Layer: layer}
}

// Parse parses source into a tree. A tree is always produced; problems are
// reported in the result errors.
func (p *Parser) Parse(source, url string, options *TokenizeOptions) *ParseTreeResult {
	return p.ParseFile(util.NewParseSourceFile(source, url), options)
}

// ParseFile parses a source file into a tree
func (p *Parser) ParseFile(file *util.ParseSourceFile, options *TokenizeOptions) *ParseTreeResult {
	opts := TokenizeOptions{}
	if options != nil {
		opts = *options
	}
	opts.Layer = p.Layer
	tokenized := TokenizeFile(file, opts)

	builder := NewTreeBuilder(tokenized.Tokens)
	builder.Build()
	return NewParseTreeResult(builder.RootNodes(), tokenized.Errors)
}

// NodeContainer is a node that holds children
type NodeContainer interface {
	Node
	appendChild(node Node)
}

func (e *Element) appendChild(node Node) { e.Children = append(e.Children, node) }

func (b *Block) appendChild(node Node) { b.Children = append(b.Children, node) }

// TreeBuilder turns a token stream into a tree. The scanner has already
// balanced the stream with implicit end tokens, so every close pops the
// innermost container.
type TreeBuilder struct {
	tokens         []*Token
	index          int
	rootNodes      []Node
	containerStack []NodeContainer
	// pending is the element whose start tag is being read.
	pending *Element
}

// NewTreeBuilder creates a new TreeBuilder
func NewTreeBuilder(tokens []*Token) *TreeBuilder {
	return &TreeBuilder{tokens: tokens}
}

// Build consumes all tokens
func (tb *TreeBuilder) Build() {
	for tb.index < len(tb.tokens) {
		token := tb.advance()
		span := token.SourceSpan()
		switch token.Type() {
		case TokenTypeTEXT:
			tb.addToParent(NewText(token.Part(0), span))
		case TokenTypeENTITY:
			tb.addToParent(NewEntity(token.Part(0), token.Part(1), span))
		case TokenTypeCOMMENT:
			tb.addToParent(NewComment(token.Part(0), span))
		case TokenTypeDOCTYPE:
			tb.addToParent(NewDoctype(token.Part(0), span))
		case TokenTypeRAW_TEXT:
			tb.addToParent(NewRawText(token.Part(0), false, span))
		case TokenTypeESCAPABLE_RAW_TEXT:
			tb.addToParent(NewRawText(token.Part(0), true, span))
		case TokenTypeEXPRESSION:
			tb.addToParent(NewExpression(token.Field(FieldContent), token.Part(0), span))

		case TokenTypeTAG_OPEN_START:
			tb.pending = NewElement(NewTagName(token), span)
		case TokenTypeATTRIBUTE:
			tb.addAttr(NewAttribute(token))
		case TokenTypeTAG:
			if tb.pending != nil {
				tb.addAttr(NewTag(token))
			} else {
				tb.addToParent(NewTag(token))
			}
		case TokenTypeERROR:
			if tb.pending != nil {
				tb.addAttr(NewErrorNode(token))
			} else {
				tb.addToParent(NewErrorNode(token))
			}
		case TokenTypeTAG_OPEN_END, TokenTypeTAG_OPEN_END_VOID, TokenTypeINCOMPLETE_TAG_OPEN:
			tb.consumeStartTagEnd(token)
		case TokenTypeTAG_CLOSE:
			tb.popElement(token)
		case TokenTypeIMPLICIT_END_TAG:
			tb.popElement(nil)
		case TokenTypeERRONEOUS_END_TAG:
			tb.addToParent(NewErroneousEndTag(token))

		case TokenTypeBLOCK_START:
			block := NewBlock(token)
			tb.addToParent(block)
			tb.containerStack = append(tb.containerStack, block)
		case TokenTypeBLOCK_BRANCH:
			tb.addToParent(NewBlockBranch(token))
		case TokenTypeERRONEOUS_BLOCK_BRANCH, TokenTypeERRONEOUS_BLOCK_END:
			tb.addToParent(NewErrorNode(token))
		case TokenTypeBLOCK_END:
			tb.popBlock(token)
		case TokenTypeIMPLICIT_BLOCK_END:
			tb.popBlock(nil)
		}
	}

	// A strict scan may stop before the stream is balanced.
	if tb.pending != nil {
		el := tb.pending
		tb.pending = nil
		el.Incomplete = true
		tb.addToParent(el)
	}
	for len(tb.containerStack) > 0 {
		switch tb.containerStack[len(tb.containerStack)-1].(type) {
		case *Element:
			tb.popElement(nil)
		case *Block:
			tb.popBlock(nil)
		}
	}
}

func (tb *TreeBuilder) advance() *Token {
	token := tb.tokens[tb.index]
	tb.index++
	return token
}

func (tb *TreeBuilder) getContainer() NodeContainer {
	if len(tb.containerStack) > 0 {
		return tb.containerStack[len(tb.containerStack)-1]
	}
	return nil
}

func (tb *TreeBuilder) addToParent(node Node) {
	if parent := tb.getContainer(); parent != nil {
		parent.appendChild(node)
	} else {
		tb.rootNodes = append(tb.rootNodes, node)
	}
}

func (tb *TreeBuilder) addAttr(node Node) {
	if tb.pending != nil {
		tb.pending.Attrs = append(tb.pending.Attrs, node)
	}
}

func (tb *TreeBuilder) consumeStartTagEnd(token *Token) {
	el := tb.pending
	if el == nil {
		return
	}
	tb.pending = nil

	el.StartSourceSpan = joinSpans(el.StartSourceSpan, token.SourceSpan())
	el.sourceSpan = el.StartSourceSpan
	switch token.Type() {
	case TokenTypeTAG_OPEN_END_VOID:
		el.SelfClosing = true
	case TokenTypeINCOMPLETE_TAG_OPEN:
		el.Incomplete = true
	}
	tb.addToParent(el)
	if token.Type() == TokenTypeTAG_OPEN_END && !el.IsVoid() {
		tb.containerStack = append(tb.containerStack, el)
	}
}

// popElement closes the innermost element; endTag is nil for implicit
// closes.
func (tb *TreeBuilder) popElement(endTag *Token) {
	el, ok := tb.getContainer().(*Element)
	if !ok {
		return
	}
	tb.containerStack = tb.containerStack[:len(tb.containerStack)-1]
	if endTag != nil {
		el.EndSourceSpan = endTag.SourceSpan()
		el.EndName = NewTagName(endTag)
		el.sourceSpan = joinSpans(el.StartSourceSpan, el.EndSourceSpan)
		return
	}
	if n := len(el.Children); n > 0 {
		el.sourceSpan = joinSpans(el.StartSourceSpan, el.Children[n-1].SourceSpan())
	}
}

func (tb *TreeBuilder) popBlock(endToken *Token) {
	block, ok := tb.getContainer().(*Block)
	if !ok {
		return
	}
	tb.containerStack = tb.containerStack[:len(tb.containerStack)-1]
	if endToken != nil {
		block.EndSourceSpan = endToken.SourceSpan()
		block.sourceSpan = joinSpans(block.StartSourceSpan, block.EndSourceSpan)
		return
	}
	if n := len(block.Children); n > 0 {
		block.sourceSpan = joinSpans(block.StartSourceSpan, block.Children[n-1].SourceSpan())
	}
}

// RootNodes returns the root nodes
func (tb *TreeBuilder) RootNodes() []Node {
	return tb.rootNodes
}

func joinSpans(start, end *util.ParseSourceSpan) *util.ParseSourceSpan {
	return util.NewParseSourceSpan(start.Start, end.End, start.FullStart, nil)
}

func decodeEntities(s string) string {
	return html.UnescapeString(s)
}
