package ml_parser

import (
	"maps"
	"slices"
)

// HeadKind names a brace-introduced construct recognized by a layer
type HeadKind int

const (
	HeadBlockStart HeadKind = iota
	HeadBlockBranch
	HeadBlockEnd
	HeadTag
)

// HeadRecognizer maps the byte following '{' to a construct
type HeadRecognizer struct {
	Sigil byte
	Kind  HeadKind
}

// Layer configures which constructs the scanner recognizes. Layers are
// plain values; a richer layer is a copy of a simpler one with more
// switches turned on.
type Layer struct {
	Name string
	// Expressions enables {...} in text and attribute position, including
	// shorthand and spread attributes.
	Expressions bool
	// NamespacedTags splits "ns:local" tag names into namespace and name.
	NamespacedTags bool
	// DottedTags splits "A.B.C" tag names into object and properties.
	DottedTags bool
	// Directives splits "prefix:name|mod" attribute names.
	Directives bool
	// Heads are tried in order when '{' is followed by their sigil.
	Heads []HeadRecognizer
	// BlockKinds, BranchKinds and TagKinds list the accepted head words.
	BlockKinds  []string
	BranchKinds map[string][]string
	TagKinds    []string
}

// LayerHTML recognizes plain HTML
var LayerHTML = Layer{Name: "html"}

// LayerHTMLX adds expressions, directive attributes and component tag names
var LayerHTMLX = Layer{
	Name:           "htmlx",
	Expressions:    true,
	NamespacedTags: true,
	DottedTags:     true,
	Directives:     true,
}

// LayerSvelte adds control-flow blocks and tag directives on top of HTMLX
var LayerSvelte = LayerHTMLX.With(Layer{
	Name: "svelte",
	Heads: []HeadRecognizer{
		{Sigil: '#', Kind: HeadBlockStart},
		{Sigil: ':', Kind: HeadBlockBranch},
		{Sigil: '/', Kind: HeadBlockEnd},
		{Sigil: '@', Kind: HeadTag},
	},
	BlockKinds: []string{"if", "each", "await", "key", "snippet"},
	BranchKinds: map[string][]string{
		"if":    {"else if", "else"},
		"each":  {"else"},
		"await": {"then", "catch"},
	},
	TagKinds: []string{"html", "const", "debug", "render", "attach"},
})

// With returns a copy of l extended by ext: switches are OR-ed, the name
// is replaced and head tables are appended.
func (l Layer) With(ext Layer) Layer {
	out := l
	if ext.Name != "" {
		out.Name = ext.Name
	}
	out.Expressions = l.Expressions || ext.Expressions
	out.NamespacedTags = l.NamespacedTags || ext.NamespacedTags
	out.DottedTags = l.DottedTags || ext.DottedTags
	out.Directives = l.Directives || ext.Directives
	out.Heads = slices.Concat(l.Heads, ext.Heads)
	out.BlockKinds = slices.Concat(l.BlockKinds, ext.BlockKinds)
	out.TagKinds = slices.Concat(l.TagKinds, ext.TagKinds)
	if l.BranchKinds != nil || ext.BranchKinds != nil {
		out.BranchKinds = maps.Clone(l.BranchKinds)
		if out.BranchKinds == nil {
			out.BranchKinds = make(map[string][]string)
		}
		for k, v := range ext.BranchKinds {
			out.BranchKinds[k] = slices.Concat(out.BranchKinds[k], v)
		}
	}
	return out
}

// LayerByName returns the layer with the given name
func LayerByName(name string) (Layer, bool) {
	switch name {
	case LayerHTML.Name:
		return LayerHTML, true
	case LayerHTMLX.Name:
		return LayerHTMLX, true
	case LayerSvelte.Name:
		return LayerSvelte, true
	}
	return Layer{}, false
}

func (l *Layer) hasHead(kind HeadKind) bool {
	return slices.ContainsFunc(l.Heads, func(h HeadRecognizer) bool { return h.Kind == kind })
}

func (l *Layer) isBlockKind(kind string) bool {
	return slices.Contains(l.BlockKinds, kind)
}

func (l *Layer) isTagKind(kind string) bool {
	return slices.Contains(l.TagKinds, kind)
}

func (l *Layer) isBranchKind(kind string) bool {
	for _, kinds := range l.BranchKinds {
		if slices.Contains(kinds, kind) {
			return true
		}
	}
	return false
}

// branchAllowed reports whether a block of kind block accepts branch.
func (l *Layer) branchAllowed(block, branch string) bool {
	return slices.Contains(l.BranchKinds[block], branch)
}
