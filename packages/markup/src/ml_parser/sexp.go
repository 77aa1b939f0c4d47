package ml_parser

import (
	"strings"
)

// ToSexp renders nodes as a syntax-tree S-expression rooted at
// "(document ...)". Only node kinds and field names are printed, so the
// output describes the shape of the tree, not its text.
func ToSexp(nodes []Node) string {
	p := &sexpPrinter{}
	p.open("document")
	VisitAll(p, nodes, nil)
	p.close()
	return p.sb.String()
}

type sexpPrinter struct {
	sb strings.Builder
}

func (p *sexpPrinter) open(kind string) {
	if p.sb.Len() > 0 {
		p.sb.WriteByte(' ')
	}
	p.sb.WriteByte('(')
	p.sb.WriteString(kind)
}

// field opens a node labelled with a field name.
func (p *sexpPrinter) field(name, kind string) {
	p.sb.WriteByte(' ')
	p.sb.WriteString(name)
	p.sb.WriteString(": (")
	p.sb.WriteString(kind)
}

func (p *sexpPrinter) close() {
	p.sb.WriteByte(')')
}

func (p *sexpPrinter) leaf(kind string) {
	p.open(kind)
	p.close()
}

func (p *sexpPrinter) fieldLeaf(name, kind string) {
	p.field(name, kind)
	p.close()
}

func (p *sexpPrinter) tagName(name *TagName) {
	p.open("tag_name")
	switch {
	case name.Namespace != nil:
		p.fieldLeaf("namespace", "tag_namespace")
		p.fieldLeaf("name", "tag_local_name")
	case name.Object != nil:
		p.fieldLeaf("object", "tag_member")
		for range name.Properties {
			p.fieldLeaf("property", "tag_member")
		}
	}
	p.close()
}

func (p *sexpPrinter) expression(lang string, content bool) {
	p.open("expression")
	if content {
		p.fieldLeaf("content", lang)
	}
	p.close()
}

func (p *sexpPrinter) VisitElement(element *Element, context interface{}) interface{} {
	p.open("element")
	if element.SelfClosing {
		p.open("self_closing_tag")
	} else {
		p.open("start_tag")
	}
	p.tagName(element.Name)
	VisitAll(p, element.Attrs, context)
	p.close()

	VisitAll(p, element.Children, context)
	if element.EndSourceSpan != nil {
		p.open("end_tag")
		p.tagName(element.EndName)
		p.close()
	}
	p.close()
	return nil
}

func (p *sexpPrinter) VisitAttribute(attribute *Attribute, context interface{}) interface{} {
	p.open("attribute")
	switch attribute.Kind {
	case AttributeKindShorthand:
		p.open("shorthand_attribute")
		if attribute.Expression != nil {
			p.fieldLeaf("content", attribute.Lang)
		}
		p.close()
	case AttributeKindSpread:
		p.leaf("spread_attribute")
	default:
		p.open("attribute_name")
		if attribute.Kind == AttributeKindDirective {
			p.leaf("attribute_directive")
			p.leaf("attribute_identifier")
			if len(attribute.Modifiers) > 0 {
				p.open("attribute_modifiers")
				for range attribute.Modifiers {
					p.leaf("attribute_modifier")
				}
				p.close()
			}
		}
		p.close()
		p.attributeValue(attribute)
	}
	p.close()
	return nil
}

func (p *sexpPrinter) attributeValue(attribute *Attribute) {
	switch attribute.ValueKind {
	case ValueKindQuoted:
		p.open("quoted_attribute_value")
		p.valueParts(attribute)
		p.close()
	case ValueKindUnquoted:
		p.leaf("attribute_value")
	case ValueKindExpression:
		p.valueParts(attribute)
	case ValueKindMixed:
		p.open("unquoted_attribute_value")
		p.valueParts(attribute)
		p.close()
	}
}

func (p *sexpPrinter) valueParts(attribute *Attribute) {
	for _, part := range attribute.ValueParts {
		switch part := part.(type) {
		case *Text:
			p.leaf("attribute_value")
		case *Expression:
			p.expression(part.Lang, part.Content != nil)
		}
	}
}

func (p *sexpPrinter) VisitText(text *Text, context interface{}) interface{} {
	p.leaf("text")
	return nil
}

func (p *sexpPrinter) VisitEntity(entity *Entity, context interface{}) interface{} {
	p.leaf("entity")
	return nil
}

func (p *sexpPrinter) VisitComment(comment *Comment, context interface{}) interface{} {
	p.leaf("comment")
	return nil
}

func (p *sexpPrinter) VisitDoctype(doctype *Doctype, context interface{}) interface{} {
	p.leaf("doctype")
	return nil
}

func (p *sexpPrinter) VisitRawText(rawText *RawText, context interface{}) interface{} {
	p.leaf("raw_text")
	return nil
}

func (p *sexpPrinter) VisitExpression(expression *Expression, context interface{}) interface{} {
	p.expression(expression.Lang, expression.Content != nil)
	return nil
}

func (p *sexpPrinter) VisitBlock(block *Block, context interface{}) interface{} {
	p.open("block")
	p.open("block_start")
	p.fieldLeaf("kind", "block_kind")
	if block.Expression != nil {
		p.fieldLeaf("expression", "expression")
	}
	if block.Binding != nil {
		p.fieldLeaf("binding", "pattern")
	}
	if block.Index != nil {
		p.fieldLeaf("index", "pattern")
	}
	if block.Key != nil {
		p.fieldLeaf("key", "expression")
	}
	p.close()

	VisitAll(p, block.Children, context)
	if block.EndSourceSpan != nil {
		p.open("block_end")
		p.fieldLeaf("kind", "block_kind")
		p.close()
	}
	p.close()
	return nil
}

func (p *sexpPrinter) VisitBlockBranch(branch *BlockBranch, context interface{}) interface{} {
	p.open("block_branch")
	p.fieldLeaf("kind", "block_kind")
	if branch.Expression != nil {
		p.fieldLeaf("expression", "expression_value")
	}
	p.close()
	return nil
}

func (p *sexpPrinter) VisitTag(tag *Tag, context interface{}) interface{} {
	p.open("tag")
	p.fieldLeaf("kind", "tag_kind")
	if tag.Expression != nil {
		p.fieldLeaf("expression", "expression_value")
	}
	p.close()
	return nil
}

func (p *sexpPrinter) VisitErroneousEndTag(endTag *ErroneousEndTag, context interface{}) interface{} {
	p.open("erroneous_end_tag")
	p.leaf("erroneous_end_tag_name")
	p.close()
	return nil
}

func (p *sexpPrinter) VisitError(node *ErrorNode, context interface{}) interface{} {
	p.leaf("ERROR")
	return nil
}
