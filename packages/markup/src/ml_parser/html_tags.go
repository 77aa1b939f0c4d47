package ml_parser

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// HtmlTagDefinition implements TagDefinition for HTML tags
type HtmlTagDefinition struct {
	class            TagClass
	closedByChildren map[string]bool
	onlyContains     map[string]bool
	contentType      TagContentType
	known            bool
}

// HtmlTagDefinitionOptions are options for creating an HtmlTagDefinition
type HtmlTagDefinitionOptions struct {
	ClosedByChildren []string
	// OnlyContains, when set, closes the element on any child not listed.
	OnlyContains []string
	ContentType  *TagContentType
	IsVoid       bool
	// OptionalEndTag marks elements whose end tag may be omitted without
	// any closing child (html, head, body).
	OptionalEndTag bool
	Unknown        bool
}

// NewHtmlTagDefinition creates a new HtmlTagDefinition
func NewHtmlTagDefinition(opts HtmlTagDefinitionOptions) *HtmlTagDefinition {
	def := &HtmlTagDefinition{
		class:       TagClassNormal,
		contentType: TagContentTypePARSABLE_DATA,
		known:       !opts.Unknown,
	}
	if len(opts.ClosedByChildren) > 0 {
		def.closedByChildren = toSet(opts.ClosedByChildren)
	}
	if len(opts.OnlyContains) > 0 {
		def.onlyContains = toSet(opts.OnlyContains)
	}

	switch {
	case opts.IsVoid:
		def.class = TagClassVoid
	case opts.ContentType != nil && *opts.ContentType == TagContentTypeRAW_TEXT:
		def.class = TagClassRawText
		def.contentType = TagContentTypeRAW_TEXT
	case opts.ContentType != nil && *opts.ContentType == TagContentTypeESCAPABLE_RAW_TEXT:
		def.class = TagClassEscapableRawText
		def.contentType = TagContentTypeESCAPABLE_RAW_TEXT
	case def.closedByChildren != nil || def.onlyContains != nil || opts.OptionalEndTag:
		def.class = TagClassOptionalEndTag
	}
	return def
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// Class returns the classification of the tag
func (h *HtmlTagDefinition) Class() TagClass {
	return h.class
}

// IsVoid returns whether this tag is void
func (h *HtmlTagDefinition) IsVoid() bool {
	return h.class == TagClassVoid
}

// IsKnown returns whether this is a standard HTML element
func (h *HtmlTagDefinition) IsKnown() bool {
	return h.known
}

// IsClosedByChild returns whether opening the named child implicitly
// closes this tag
func (h *HtmlTagDefinition) IsClosedByChild(name string) bool {
	child := strings.ToLower(name)
	if h.onlyContains != nil {
		return !h.onlyContains[child]
	}
	return h.closedByChildren[child]
}

// GetContentType returns the content type for this tag
func (h *HtmlTagDefinition) GetContentType() TagContentType {
	return h.contentType
}

var (
	knownTagDefinition  = NewHtmlTagDefinition(HtmlTagDefinitionOptions{})
	customTagDefinition = NewHtmlTagDefinition(HtmlTagDefinitionOptions{Unknown: true})
	tagDefinitions      = initHtmlTagDefinitions()
)

// GetHtmlTagDefinition returns the HTML tag definition for a tag name.
// Lookup is case-insensitive; names that are not standard HTML elements
// (components, custom elements, namespaced and dotted names) get the
// Normal classification.
func GetHtmlTagDefinition(tagName string) TagDefinition {
	lower := strings.ToLower(tagName)
	if def, exists := tagDefinitions[lower]; exists {
		return def
	}
	if atom.Lookup([]byte(lower)) != 0 {
		return knownTagDefinition
	}
	return customTagDefinition
}

func initHtmlTagDefinitions() map[string]*HtmlTagDefinition {
	defs := make(map[string]*HtmlTagDefinition)

	voidTags := []string{"area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta", "source", "track", "wbr"}
	for _, tag := range voidTags {
		defs[tag] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{IsVoid: true})
	}

	rawText := TagContentTypeRAW_TEXT
	escapable := TagContentTypeESCAPABLE_RAW_TEXT
	defs["script"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ContentType: &rawText})
	defs["style"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ContentType: &rawText})
	defs["textarea"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ContentType: &escapable})
	defs["title"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ContentType: &escapable})

	defs["p"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
		ClosedByChildren: []string{
			"address", "article", "aside", "blockquote", "details", "div", "dl",
			"fieldset", "figcaption", "figure", "footer", "form", "h1", "h2", "h3",
			"h4", "h5", "h6", "header", "hgroup", "hr", "main", "menu", "nav", "ol",
			"p", "pre", "search", "section", "table", "ul",
		},
	})

	// Lists
	defs["li"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: []string{"li"}})
	defs["dt"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: []string{"dt", "dd"}})
	defs["dd"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: []string{"dt", "dd"}})

	// Ruby
	ruby := []string{"rb", "rt", "rp", "rtc"}
	for _, tag := range ruby {
		defs[tag] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: ruby})
	}

	// Select
	defs["optgroup"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: []string{"optgroup"}})
	defs["option"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: []string{"option", "optgroup"}})

	// Tables
	defs["colgroup"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{OnlyContains: []string{"col", "template"}})
	defs["caption"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
		ClosedByChildren: []string{"thead", "tbody", "tfoot", "tr", "colgroup", "col"},
	})
	sections := []string{"thead", "tbody", "tfoot"}
	for _, tag := range sections {
		defs[tag] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: sections})
	}
	defs["tr"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: []string{"tr"}})
	defs["td"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: []string{"td", "th", "tr"}})
	defs["th"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: []string{"td", "th", "tr"}})

	// Document structure
	defs["html"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{OptionalEndTag: true})
	defs["head"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{ClosedByChildren: []string{"body"}})
	defs["body"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{OptionalEndTag: true})

	return defs
}
