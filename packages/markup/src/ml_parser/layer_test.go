package ml_parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/ml_parser"
)

func tokenTypes(input string, layer *ml_parser.Layer) []ml_parser.TokenType {
	var types []ml_parser.TokenType
	for _, token := range tokenize(input, layer).Tokens {
		types = append(types, token.Type())
	}
	return types
}

func TestLayer_With(t *testing.T) {
	keyed := ml_parser.LayerHTMLX.With(ml_parser.Layer{
		Name: "keyed",
		Heads: []ml_parser.HeadRecognizer{
			{Sigil: '#', Kind: ml_parser.HeadBlockStart},
			{Sigil: '/', Kind: ml_parser.HeadBlockEnd},
		},
		BlockKinds:  []string{"key"},
		BranchKinds: map[string][]string{"key": {"else"}},
	})

	t.Run("should recognize only the added block kinds", func(t *testing.T) {
		expected := []ml_parser.TokenType{
			ml_parser.TokenTypeBLOCK_START,
			ml_parser.TokenTypeTEXT,
			ml_parser.TokenTypeBLOCK_END,
			ml_parser.TokenTypeERROR,
			ml_parser.TokenTypeEOF,
		}
		if diff := cmp.Diff(expected, tokenTypes("{#key a}x{/key}{#if b}", &keyed)); diff != "" {
			t.Errorf("token types mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep the switches of the base layer", func(t *testing.T) {
		if keyed.Name != "keyed" || !keyed.Expressions || !keyed.DottedTags || !keyed.Directives {
			t.Errorf("With() = %+v, want the HTMLX switches", keyed)
		}
	})

	t.Run("should not modify the base layers", func(t *testing.T) {
		if len(ml_parser.LayerHTMLX.Heads) != 0 || len(ml_parser.LayerHTMLX.BlockKinds) != 0 {
			t.Errorf("LayerHTMLX gained heads: %+v", ml_parser.LayerHTMLX)
		}
		if diff := cmp.Diff([]string{"else if", "else"}, ml_parser.LayerSvelte.BranchKinds["if"]); diff != "" {
			t.Errorf("if branches mismatch (-want +got):\n%s", diff)
		}
		extended := ml_parser.LayerSvelte.With(ml_parser.Layer{BranchKinds: map[string][]string{"if": {"elseif"}}})
		if diff := cmp.Diff([]string{"else if", "else", "elseif"}, extended.BranchKinds["if"]); diff != "" {
			t.Errorf("extended branches mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"else if", "else"}, ml_parser.LayerSvelte.BranchKinds["if"]); diff != "" {
			t.Errorf("base branches changed (-want +got):\n%s", diff)
		}
	})

	t.Run("should look up layers by name", func(t *testing.T) {
		for _, name := range []string{"html", "htmlx", "svelte"} {
			layer, ok := ml_parser.LayerByName(name)
			if !ok || layer.Name != name {
				t.Errorf("LayerByName(%q) = %q, %v", name, layer.Name, ok)
			}
		}
		if _, ok := ml_parser.LayerByName("keyed"); ok {
			t.Errorf("LayerByName(keyed) should fail")
		}
	})
}
