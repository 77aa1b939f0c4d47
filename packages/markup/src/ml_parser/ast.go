package ml_parser

import (
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

// Node represents a node in the markup tree
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor, context interface{}) interface{}
}

type nodeBase struct {
	sourceSpan *util.ParseSourceSpan
}

func (n *nodeBase) SourceSpan() *util.ParseSourceSpan {
	return n.sourceSpan
}

// TagName is the name of a start or end tag with its optional structure
type TagName struct {
	Name       string
	Span       *util.ParseSourceSpan
	Namespace  *util.ParseSourceSpan
	LocalName  *util.ParseSourceSpan
	Object     *util.ParseSourceSpan
	Properties []*util.ParseSourceSpan
}

// NewTagName builds a TagName from the name fields of a tag token
func NewTagName(token *Token) *TagName {
	n := &TagName{Name: token.Part(0)}
	for _, f := range token.Fields() {
		switch f.Name {
		case FieldName:
			if n.Namespace != nil {
				n.LocalName = f.Span
			} else {
				n.Span = f.Span
			}
		case FieldNamespace:
			n.Namespace = f.Span
		case FieldObject:
			n.Object = f.Span
		case FieldProperty:
			n.Properties = append(n.Properties, f.Span)
		}
	}
	return n
}

// Text represents a run of character data
type Text struct {
	nodeBase
	Value string
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{nodeBase: nodeBase{sourceSpan}, Value: value}
}

// Visit implements Node
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Entity represents a character reference. Value is the decoded text.
type Entity struct {
	nodeBase
	Value string
	Raw   string
}

// NewEntity creates a new Entity node
func NewEntity(value, raw string, sourceSpan *util.ParseSourceSpan) *Entity {
	return &Entity{nodeBase: nodeBase{sourceSpan}, Value: value, Raw: raw}
}

// Visit implements Node
func (e *Entity) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitEntity(e, context)
}

// Comment represents an HTML comment
type Comment struct {
	nodeBase
	Value string
}

// NewComment creates a new Comment node
func NewComment(value string, sourceSpan *util.ParseSourceSpan) *Comment {
	return &Comment{nodeBase: nodeBase{sourceSpan}, Value: value}
}

// Visit implements Node
func (c *Comment) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitComment(c, context)
}

// Doctype represents a doctype declaration
type Doctype struct {
	nodeBase
	Value string
}

// NewDoctype creates a new Doctype node
func NewDoctype(value string, sourceSpan *util.ParseSourceSpan) *Doctype {
	return &Doctype{nodeBase: nodeBase{sourceSpan}, Value: value}
}

// Visit implements Node
func (d *Doctype) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitDoctype(d, context)
}

// RawText is the content of a raw text or escapable raw text element
type RawText struct {
	nodeBase
	Value     string
	Escapable bool
}

// NewRawText creates a new RawText node
func NewRawText(value string, escapable bool, sourceSpan *util.ParseSourceSpan) *RawText {
	return &RawText{nodeBase: nodeBase{sourceSpan}, Value: value, Escapable: escapable}
}

// Visit implements Node
func (r *RawText) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitRawText(r, context)
}

// Expression is a braced expression. Content is nil for "{}".
type Expression struct {
	nodeBase
	Content *util.ParseSourceSpan
	Lang    string
}

// NewExpression creates a new Expression node
func NewExpression(content *util.ParseSourceSpan, lang string, sourceSpan *util.ParseSourceSpan) *Expression {
	return &Expression{nodeBase: nodeBase{sourceSpan}, Content: content, Lang: lang}
}

// Visit implements Node
func (e *Expression) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitExpression(e, context)
}

// Attribute is one attribute of a start tag
type Attribute struct {
	nodeBase
	*AttributeOccurrence
	Lang string
	// ValueParts holds Text and Expression nodes in source order.
	ValueParts []Node
}

// NewAttribute creates an Attribute from an ATTRIBUTE token
func NewAttribute(token *Token) *Attribute {
	occurrence := OccurrenceFromToken(token)
	a := &Attribute{
		nodeBase:            nodeBase{token.SourceSpan()},
		AttributeOccurrence: occurrence,
		Lang:                token.Part(2),
	}
	for _, part := range occurrence.Parts {
		if part.Expression {
			a.ValueParts = append(a.ValueParts, NewExpression(part.Content, a.Lang, part.Span))
		} else {
			a.ValueParts = append(a.ValueParts, NewText(decodeEntities(part.Span.String()), part.Span))
		}
	}
	return a
}

// DecodedValue returns the entity-decoded value of an attribute whose value
// has no expressions.
func (a *Attribute) DecodedValue() string {
	value := ""
	for _, part := range a.ValueParts {
		text, ok := part.(*Text)
		if !ok {
			return ""
		}
		value += text.Value
	}
	return value
}

// Visit implements Node
func (a *Attribute) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAttribute(a, context)
}

// Element represents an element. Attrs holds Attribute, Tag and ErrorNode
// nodes in source order.
type Element struct {
	nodeBase
	Name            *TagName
	Attrs           []Node
	Children        []Node
	StartSourceSpan *util.ParseSourceSpan
	// EndSourceSpan is nil for void, self-closing and implicitly closed
	// elements.
	EndSourceSpan *util.ParseSourceSpan
	EndName       *TagName
	SelfClosing   bool
	Incomplete    bool
}

// NewElement creates a new Element
func NewElement(name *TagName, startSourceSpan *util.ParseSourceSpan) *Element {
	return &Element{
		nodeBase:        nodeBase{startSourceSpan},
		Name:            name,
		StartSourceSpan: startSourceSpan,
	}
}

// IsVoid reports whether the element is a void HTML element
func (e *Element) IsVoid() bool {
	return GetHtmlTagDefinition(e.Name.Name).IsVoid()
}

// Visit implements Node
func (e *Element) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElement(e, context)
}

// Block is a control-flow block with its head fields. Children holds the
// content of every branch; BlockBranch nodes mark where branches begin.
type Block struct {
	nodeBase
	Kind       string
	Lang       string
	KindSpan   *util.ParseSourceSpan
	Expression *util.ParseSourceSpan
	Binding    *util.ParseSourceSpan
	Index      *util.ParseSourceSpan
	Key        *util.ParseSourceSpan
	// Clause is the "then" or "catch" keyword of an await head.
	Clause          *util.ParseSourceSpan
	Children        []Node
	StartSourceSpan *util.ParseSourceSpan
	// EndSourceSpan is nil when the block was closed at end of input.
	EndSourceSpan *util.ParseSourceSpan
}

// NewBlock creates a Block from a BLOCK_START token
func NewBlock(token *Token) *Block {
	return &Block{
		nodeBase:        nodeBase{token.SourceSpan()},
		Kind:            token.Part(0),
		Lang:            token.Part(1),
		KindSpan:        token.Field(FieldKind),
		Expression:      token.Field(FieldExpression),
		Binding:         token.Field(FieldBinding),
		Index:           token.Field(FieldIndex),
		Key:             token.Field(FieldKey),
		Clause:          token.Field(FieldShorthand),
		StartSourceSpan: token.SourceSpan(),
	}
}

// Branches returns the branch markers of the block
func (b *Block) Branches() []*BlockBranch {
	var branches []*BlockBranch
	for _, child := range b.Children {
		if branch, ok := child.(*BlockBranch); ok {
			branches = append(branches, branch)
		}
	}
	return branches
}

// Visit implements Node
func (b *Block) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitBlock(b, context)
}

// BlockBranch marks "{:else}", "{:else if x}", "{:then v}" or "{:catch e}"
type BlockBranch struct {
	nodeBase
	Kind       string
	KindSpan   *util.ParseSourceSpan
	Expression *util.ParseSourceSpan
}

// NewBlockBranch creates a BlockBranch from a BLOCK_BRANCH token
func NewBlockBranch(token *Token) *BlockBranch {
	return &BlockBranch{
		nodeBase:   nodeBase{token.SourceSpan()},
		Kind:       token.Part(0),
		KindSpan:   token.Field(FieldKind),
		Expression: token.Field(FieldExpression),
	}
}

// Visit implements Node
func (b *BlockBranch) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitBlockBranch(b, context)
}

// Tag is "{@kind expression}", in content or attribute position
type Tag struct {
	nodeBase
	Kind       string
	Lang       string
	KindSpan   *util.ParseSourceSpan
	Expression *util.ParseSourceSpan
}

// NewTag creates a Tag from a TAG token
func NewTag(token *Token) *Tag {
	return &Tag{
		nodeBase:   nodeBase{token.SourceSpan()},
		Kind:       token.Part(0),
		Lang:       token.Part(1),
		KindSpan:   token.Field(FieldKind),
		Expression: token.Field(FieldExpression),
	}
}

// Visit implements Node
func (t *Tag) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitTag(t, context)
}

// ErroneousEndTag is an end tag that matched no open element
type ErroneousEndTag struct {
	nodeBase
	Name *TagName
}

// NewErroneousEndTag creates a new ErroneousEndTag node
func NewErroneousEndTag(token *Token) *ErroneousEndTag {
	return &ErroneousEndTag{nodeBase: nodeBase{token.SourceSpan()}, Name: NewTagName(token)}
}

// Visit implements Node
func (e *ErroneousEndTag) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitErroneousEndTag(e, context)
}

// ErrorNode covers source the scanner could not classify: unknown heads,
// stray characters in tags, and misplaced block branches or ends.
type ErrorNode struct {
	nodeBase
	TokenType TokenType
	Text      string
}

// NewErrorNode creates a new ErrorNode from the offending token
func NewErrorNode(token *Token) *ErrorNode {
	return &ErrorNode{
		nodeBase:  nodeBase{token.SourceSpan()},
		TokenType: token.Type(),
		Text:      token.SourceSpan().String(),
	}
}

// Visit implements Node
func (e *ErrorNode) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitError(e, context)
}

// Visitor visits markup nodes
type Visitor interface {
	VisitElement(element *Element, context interface{}) interface{}
	VisitAttribute(attribute *Attribute, context interface{}) interface{}
	VisitText(text *Text, context interface{}) interface{}
	VisitEntity(entity *Entity, context interface{}) interface{}
	VisitComment(comment *Comment, context interface{}) interface{}
	VisitDoctype(doctype *Doctype, context interface{}) interface{}
	VisitRawText(rawText *RawText, context interface{}) interface{}
	VisitExpression(expression *Expression, context interface{}) interface{}
	VisitBlock(block *Block, context interface{}) interface{}
	VisitBlockBranch(branch *BlockBranch, context interface{}) interface{}
	VisitTag(tag *Tag, context interface{}) interface{}
	VisitErroneousEndTag(endTag *ErroneousEndTag, context interface{}) interface{}
	VisitError(node *ErrorNode, context interface{}) interface{}
}

// VisitAll visits all nodes and collects the non-nil results
func VisitAll(visitor Visitor, nodes []Node, context interface{}) []interface{} {
	var result []interface{}
	for _, node := range nodes {
		if r := node.Visit(visitor, context); r != nil {
			result = append(result, r)
		}
	}
	return result
}

// RecursiveVisitor walks the whole tree. Embed it and override the methods
// of interest; overriding methods should call the embedded one to descend.
type RecursiveVisitor struct {
	// Self is the outer visitor that receives the callbacks for children.
	// It defaults to the RecursiveVisitor itself.
	Self Visitor
}

func (r *RecursiveVisitor) self() Visitor {
	if r.Self != nil {
		return r.Self
	}
	return r
}

// VisitElement visits the attributes and children of an element
func (r *RecursiveVisitor) VisitElement(element *Element, context interface{}) interface{} {
	VisitAll(r.self(), element.Attrs, context)
	VisitAll(r.self(), element.Children, context)
	return nil
}

// VisitAttribute visits the value parts of an attribute
func (r *RecursiveVisitor) VisitAttribute(attribute *Attribute, context interface{}) interface{} {
	VisitAll(r.self(), attribute.ValueParts, context)
	return nil
}

func (r *RecursiveVisitor) VisitText(text *Text, context interface{}) interface{} { return nil }

func (r *RecursiveVisitor) VisitEntity(entity *Entity, context interface{}) interface{} { return nil }

func (r *RecursiveVisitor) VisitComment(comment *Comment, context interface{}) interface{} {
	return nil
}

func (r *RecursiveVisitor) VisitDoctype(doctype *Doctype, context interface{}) interface{} {
	return nil
}

func (r *RecursiveVisitor) VisitRawText(rawText *RawText, context interface{}) interface{} {
	return nil
}

func (r *RecursiveVisitor) VisitExpression(expression *Expression, context interface{}) interface{} {
	return nil
}

// VisitBlock visits the children of a block
func (r *RecursiveVisitor) VisitBlock(block *Block, context interface{}) interface{} {
	VisitAll(r.self(), block.Children, context)
	return nil
}

func (r *RecursiveVisitor) VisitBlockBranch(branch *BlockBranch, context interface{}) interface{} {
	return nil
}

func (r *RecursiveVisitor) VisitTag(tag *Tag, context interface{}) interface{} { return nil }

func (r *RecursiveVisitor) VisitErroneousEndTag(endTag *ErroneousEndTag, context interface{}) interface{} {
	return nil
}

func (r *RecursiveVisitor) VisitError(node *ErrorNode, context interface{}) interface{} {
	return nil
}
