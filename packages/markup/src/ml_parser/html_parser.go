package ml_parser

// HtmlParser parses plain HTML
type HtmlParser struct {
	*Parser
}

// NewHtmlParser creates a new HtmlParser
func NewHtmlParser() *HtmlParser {
	return &HtmlParser{Parser: NewParser(&LayerHTML)}
}

// HtmlxParser parses HTML with embedded expressions, directives and
// component tag names
type HtmlxParser struct {
	*Parser
}

// NewHtmlxParser creates a new HtmlxParser
func NewHtmlxParser() *HtmlxParser {
	return &HtmlxParser{Parser: NewParser(&LayerHTMLX)}
}

// SvelteParser parses Svelte components
type SvelteParser struct {
	*Parser
}

// NewSvelteParser creates a new SvelteParser
func NewSvelteParser() *SvelteParser {
	return &SvelteParser{Parser: NewParser(&LayerSvelte)}
}

// ParserForLayer returns a parser for the named layer
func ParserForLayer(name string) (*Parser, bool) {
	layer, ok := LayerByName(name)
	if !ok {
		return nil, false
	}
	return NewParser(&layer), true
}
