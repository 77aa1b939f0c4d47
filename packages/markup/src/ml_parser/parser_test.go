package ml_parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/ml_parser"
)

func TestParser_Sexp(t *testing.T) {
	tests := []struct {
		name     string
		layer    *ml_parser.Layer
		input    string
		expected string
	}{
		{
			"should parse an element", &ml_parser.LayerSvelte,
			"<div></div>",
			"(document (element (start_tag (tag_name)) (end_tag (tag_name))))",
		},
		{
			"should parse void elements", &ml_parser.LayerSvelte,
			"<br>",
			"(document (element (start_tag (tag_name))))",
		},
		{
			"should parse self-closing tags", &ml_parser.LayerSvelte,
			"<input />",
			"(document (element (self_closing_tag (tag_name))))",
		},
		{
			"should parse text and entities", &ml_parser.LayerSvelte,
			"<p>a &amp; b</p>",
			"(document (element (start_tag (tag_name)) (text) (entity) (text) (end_tag (tag_name))))",
		},
		{
			"should parse comments and doctypes", &ml_parser.LayerSvelte,
			"<!-- c --><!DOCTYPE html>",
			"(document (comment) (doctype))",
		},
		{
			"should parse raw text", &ml_parser.LayerSvelte,
			"<script>let a = 1</script><textarea>b</textarea>",
			"(document (element (start_tag (tag_name)) (raw_text) (end_tag (tag_name))) (element (start_tag (tag_name)) (raw_text) (end_tag (tag_name))))",
		},
		{
			"should parse namespaced tag names", &ml_parser.LayerSvelte,
			"<svelte:head></svelte:head>",
			"(document (element (start_tag (tag_name namespace: (tag_namespace) name: (tag_local_name))) (end_tag (tag_name namespace: (tag_namespace) name: (tag_local_name)))))",
		},
		{
			"should parse member tag names", &ml_parser.LayerHTMLX,
			"<Foo.Bar.Baz />",
			"(document (element (self_closing_tag (tag_name object: (tag_member) property: (tag_member) property: (tag_member)))))",
		},
		{
			"should parse expressions", &ml_parser.LayerSvelte,
			"{a}",
			"(document (expression content: (js)))",
		},
		{
			"should parse empty expressions", &ml_parser.LayerSvelte,
			"{ }",
			"(document (expression))",
		},
		{
			"should switch expressions to TypeScript", &ml_parser.LayerSvelte,
			`<script lang="ts"></script>{a}`,
			"(document (element (start_tag (tag_name) (attribute (attribute_name) (quoted_attribute_value (attribute_value)))) (end_tag (tag_name))) (expression content: (ts)))",
		},
		{
			"should parse unquoted values", &ml_parser.LayerSvelte,
			"<a href=x></a>",
			"(document (element (start_tag (tag_name) (attribute (attribute_name) (attribute_value))) (end_tag (tag_name))))",
		},
		{
			"should parse expression values", &ml_parser.LayerSvelte,
			"<a b={c}></a>",
			"(document (element (start_tag (tag_name) (attribute (attribute_name) (expression content: (js)))) (end_tag (tag_name))))",
		},
		{
			"should parse mixed values", &ml_parser.LayerSvelte,
			"<a b=x{y}></a>",
			"(document (element (start_tag (tag_name) (attribute (attribute_name) (unquoted_attribute_value (attribute_value) (expression content: (js))))) (end_tag (tag_name))))",
		},
		{
			"should parse quoted values with expressions", &ml_parser.LayerSvelte,
			`<a title="x &amp; {y}"></a>`,
			"(document (element (start_tag (tag_name) (attribute (attribute_name) (quoted_attribute_value (attribute_value) (expression content: (js))))) (end_tag (tag_name))))",
		},
		{
			"should parse directives", &ml_parser.LayerSvelte,
			"<a bind:value={v}></a>",
			"(document (element (start_tag (tag_name) (attribute (attribute_name (attribute_directive) (attribute_identifier)) (expression content: (js)))) (end_tag (tag_name))))",
		},
		{
			"should parse shorthand and spread attributes", &ml_parser.LayerSvelte,
			"<a {b} {...c}></a>",
			"(document (element (start_tag (tag_name) (attribute (shorthand_attribute content: (js))) (attribute (spread_attribute))) (end_tag (tag_name))))",
		},
		{
			"should parse if blocks with branches", &ml_parser.LayerSvelte,
			"{#if a}x{:else if b}y{:else}z{/if}",
			"(document (block (block_start kind: (block_kind) expression: (expression)) (text) (block_branch kind: (block_kind) expression: (expression_value)) (text) (block_branch kind: (block_kind)) (text) (block_end kind: (block_kind))))",
		},
		{
			"should parse await shorthand", &ml_parser.LayerSvelte,
			"{#await p then v}{/await}",
			"(document (block (block_start kind: (block_kind) expression: (expression) binding: (pattern)) (block_end kind: (block_kind))))",
		},
		{
			"should parse tags", &ml_parser.LayerSvelte,
			"{@html x}{@debug}",
			"(document (tag kind: (tag_kind) expression: (expression_value)) (tag kind: (tag_kind)))",
		},
		{
			"should parse tags in attribute position", &ml_parser.LayerSvelte,
			"<div {@attach f}></div>",
			"(document (element (start_tag (tag_name) (tag kind: (tag_kind) expression: (expression_value))) (end_tag (tag_name))))",
		},
		{
			"should parse stray end tags", &ml_parser.LayerSvelte,
			"</div>",
			"(document (erroneous_end_tag (erroneous_end_tag_name)))",
		},
		{
			"should parse stray block ends as errors", &ml_parser.LayerSvelte,
			"{/if}",
			"(document (ERROR))",
		},
		{
			"should leave unclosed blocks and elements open", &ml_parser.LayerSvelte,
			"{#if a}<p>x",
			"(document (block (block_start kind: (block_kind) expression: (expression)) (element (start_tag (tag_name)) (text))))",
		},
		{
			"should recover from unterminated start tags", &ml_parser.LayerSvelte,
			"<div <span></span>",
			"(document (element (start_tag (tag_name))) (element (start_tag (tag_name)) (end_tag (tag_name))))",
		},
		{
			"should parse implicitly closed elements", &ml_parser.LayerHTML,
			"<ul><li>a<li>b</ul>",
			"(document (element (start_tag (tag_name)) (element (start_tag (tag_name)) (text)) (element (start_tag (tag_name)) (text)) (end_tag (tag_name))))",
		},
		{
			"should keep braces as text in plain HTML", &ml_parser.LayerHTML,
			"{a}",
			"(document (text))",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.expected, parseSexp(tc.input, tc.layer)); diff != "" {
				t.Errorf("ToSexp() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParser_Spans(t *testing.T) {
	t.Run("should set element spans", func(t *testing.T) {
		result := ml_parser.NewSvelteParser().Parse("<div>a</div>", "someUrl", nil)
		el := result.RootNodes[0].(*ml_parser.Element)
		got := []string{el.SourceSpan().String(), el.StartSourceSpan.String(), el.EndSourceSpan.String(), el.EndName.Name}
		if diff := cmp.Diff([]string{"<div>a</div>", "<div>", "</div>", "div"}, got); diff != "" {
			t.Errorf("spans mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should end implicitly closed elements at their last child", func(t *testing.T) {
		result := ml_parser.NewHtmlParser().Parse("<ul><li>a<li>b</ul>", "someUrl", nil)
		ul := result.RootNodes[0].(*ml_parser.Element)
		first := ul.Children[0].(*ml_parser.Element)
		if got := first.SourceSpan().String(); got != "<li>a" {
			t.Errorf("SourceSpan() = %q, want <li>a", got)
		}
		if first.EndSourceSpan != nil {
			t.Errorf("EndSourceSpan = %v, want nil", first.EndSourceSpan)
		}
		if got := ul.SourceSpan().String(); got != "<ul><li>a<li>b</ul>" {
			t.Errorf("SourceSpan() = %q", got)
		}
	})

	t.Run("should mark self-closing and incomplete elements", func(t *testing.T) {
		result := ml_parser.NewHtmlxParser().Parse("<Icon /><div", "someUrl", nil)
		icon := result.RootNodes[0].(*ml_parser.Element)
		div := result.RootNodes[1].(*ml_parser.Element)
		if !icon.SelfClosing || icon.Incomplete {
			t.Errorf("Icon: SelfClosing = %v, Incomplete = %v", icon.SelfClosing, icon.Incomplete)
		}
		if !div.Incomplete {
			t.Errorf("div should be incomplete")
		}
		if len(result.Errors) != 1 {
			t.Errorf("len(Errors) = %d, want 1", len(result.Errors))
		}
	})
}

func TestParser_Nodes(t *testing.T) {
	t.Run("should decode attribute values", func(t *testing.T) {
		result := ml_parser.NewSvelteParser().Parse(`<a title="x &amp; y" b={c} d>`, "someUrl", nil)
		el := result.RootNodes[0].(*ml_parser.Element)
		var got []string
		for _, attr := range el.Attrs {
			got = append(got, attr.(*ml_parser.Attribute).DecodedValue())
		}
		if diff := cmp.Diff([]string{"x & y", "", ""}, got); diff != "" {
			t.Errorf("DecodedValue() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should decode entities", func(t *testing.T) {
		result := ml_parser.NewHtmlParser().Parse("&lt;&#x41;", "someUrl", nil)
		var got []string
		for _, node := range result.RootNodes {
			entity := node.(*ml_parser.Entity)
			got = append(got, entity.Value, entity.Raw)
		}
		if diff := cmp.Diff([]string{"<", "&lt;", "A", "&#x41;"}, got); diff != "" {
			t.Errorf("entities mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should expose block heads and branches", func(t *testing.T) {
		result := ml_parser.NewSvelteParser().Parse("{#each xs as x, i (x.id)}a{:else}b{/each}", "someUrl", nil)
		block := result.RootNodes[0].(*ml_parser.Block)
		got := []string{block.Kind, block.Expression.String(), block.Binding.String(), block.Index.String(), block.Key.String()}
		for _, branch := range block.Branches() {
			got = append(got, branch.Kind)
		}
		if diff := cmp.Diff([]string{"each", "xs", "x", "i", "x.id", "else"}, got); diff != "" {
			t.Errorf("block mismatch (-want +got):\n%s", diff)
		}
		if got := block.SourceSpan().String(); got != "{#each xs as x, i (x.id)}a{:else}b{/each}" {
			t.Errorf("SourceSpan() = %q", got)
		}
	})

	t.Run("should keep the await clause", func(t *testing.T) {
		result := ml_parser.NewSvelteParser().Parse("{#await p catch e}{/await}", "someUrl", nil)
		block := result.RootNodes[0].(*ml_parser.Block)
		if block.Clause.String() != "catch" || block.Binding.String() != "e" {
			t.Errorf("Clause = %q, Binding = %q", block.Clause.String(), block.Binding.String())
		}
	})

	t.Run("should stop at the first error in strict mode", func(t *testing.T) {
		result := ml_parser.NewSvelteParser().Parse("<div>{/if}<p>", "someUrl", &ml_parser.TokenizeOptions{Strict: boolPtr(true)})
		if diff := cmp.Diff("(document (element (start_tag (tag_name)) (ERROR)))", ml_parser.ToSexp(result.RootNodes)); diff != "" {
			t.Errorf("ToSexp() mismatch (-want +got):\n%s", diff)
		}
		if len(result.Errors) != 1 {
			t.Errorf("len(Errors) = %d, want 1", len(result.Errors))
		}
	})

	t.Run("should select parsers by layer name", func(t *testing.T) {
		for _, name := range []string{"html", "htmlx", "svelte"} {
			parser, ok := ml_parser.ParserForLayer(name)
			if !ok || parser.Layer.Name != name {
				t.Errorf("ParserForLayer(%q) = %v, %v", name, parser, ok)
			}
		}
		if _, ok := ml_parser.ParserForLayer("vue"); ok {
			t.Errorf("ParserForLayer(vue) should fail")
		}
	})
}

type textCounter struct {
	ml_parser.RecursiveVisitor
	count int
}

func (c *textCounter) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	c.count++
	return nil
}

func TestRecursiveVisitor(t *testing.T) {
	t.Run("should visit nested text through elements, blocks and attributes", func(t *testing.T) {
		result := ml_parser.NewSvelteParser().Parse(`<div>a<p>b</p>{#if c}d{/if}<i title="e{f}"></i></div>`, "someUrl", nil)
		counter := &textCounter{}
		counter.Self = counter
		ml_parser.VisitAll(counter, result.RootNodes, nil)
		if counter.count != 4 {
			t.Errorf("count = %d, want 4", counter.count)
		}
	})
}
