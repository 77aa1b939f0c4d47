package ml_parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/ml_parser"
)

func TestTagStack(t *testing.T) {
	t.Run("should close an open li before a sibling li", func(t *testing.T) {
		stack := ml_parser.TagStack{"ul", "li"}
		if diff := cmp.Diff([]string{"li"}, stack.OnStartTagAboutToOpen("li", 0)); diff != "" {
			t.Errorf("OnStartTagAboutToOpen() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should close a paragraph before a block element", func(t *testing.T) {
		stack := ml_parser.TagStack{"div", "p"}
		if diff := cmp.Diff([]string{"p"}, stack.OnStartTagAboutToOpen("DIV", 0)); diff != "" {
			t.Errorf("OnStartTagAboutToOpen() mismatch (-want +got):\n%s", diff)
		}
		if got := stack.OnStartTagAboutToOpen("span", 0); len(got) != 0 {
			t.Errorf("OnStartTagAboutToOpen(span) = %v, want none", got)
		}
	})

	t.Run("should close several table levels innermost first", func(t *testing.T) {
		stack := ml_parser.TagStack{"table", "tbody", "tr", "td"}
		if diff := cmp.Diff([]string{"td", "tr"}, stack.OnStartTagAboutToOpen("tr", 0)); diff != "" {
			t.Errorf("OnStartTagAboutToOpen() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should close colgroup on any other child", func(t *testing.T) {
		stack := ml_parser.TagStack{"table", "colgroup"}
		if got := stack.OnStartTagAboutToOpen("col", 0); len(got) != 0 {
			t.Errorf("OnStartTagAboutToOpen(col) = %v, want none", got)
		}
		if diff := cmp.Diff([]string{"colgroup"}, stack.OnStartTagAboutToOpen("tbody", 0)); diff != "" {
			t.Errorf("OnStartTagAboutToOpen() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should never close entries below the floor", func(t *testing.T) {
		stack := ml_parser.TagStack{"ul", "li"}
		if got := stack.OnStartTagAboutToOpen("li", 2); len(got) != 0 {
			t.Errorf("OnStartTagAboutToOpen() = %v, want none", got)
		}
	})

	t.Run("should not push void or self-closing elements", func(t *testing.T) {
		var stack ml_parser.TagStack
		if stack.OnStartTagAccepted("br", false) {
			t.Errorf("br should not be pushed")
		}
		if stack.OnStartTagAccepted("Widget", true) {
			t.Errorf("self-closing Widget should not be pushed")
		}
		if !stack.OnStartTagAccepted("div", false) {
			t.Errorf("div should be pushed")
		}
		if diff := cmp.Diff(ml_parser.TagStack{"div"}, stack); diff != "" {
			t.Errorf("stack mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should find end tags", func(t *testing.T) {
		stack := ml_parser.TagStack{"div", "ul", "li"}
		tests := []struct {
			name  string
			floor int
			above int
			ok    bool
		}{
			{"li", 0, 0, true},
			{"UL", 0, 1, true},
			{"div", 0, 2, true},
			{"div", 1, 0, false},
			{"span", 0, 0, false},
		}
		for _, tc := range tests {
			above, ok := stack.OnEndTagSeen(tc.name, tc.floor)
			if above != tc.above || ok != tc.ok {
				t.Errorf("OnEndTagSeen(%q, %d) = %d, %v, want %d, %v", tc.name, tc.floor, above, ok, tc.above, tc.ok)
			}
		}
	})

	t.Run("should match custom names exactly", func(t *testing.T) {
		stack := ml_parser.TagStack{"My-El"}
		if _, ok := stack.OnEndTagSeen("my-el", 0); ok {
			t.Errorf("my-el should not close My-El")
		}
		if _, ok := stack.OnEndTagSeen("My-El", 0); !ok {
			t.Errorf("My-El should close My-El")
		}
	})

	t.Run("should close everything above the floor", func(t *testing.T) {
		stack := ml_parser.TagStack{"div", "ul", "li"}
		if diff := cmp.Diff([]string{"li", "ul"}, stack.CloseAll(1)); diff != "" {
			t.Errorf("CloseAll() mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(ml_parser.TagStack{"div"}, stack); diff != "" {
			t.Errorf("stack mismatch (-want +got):\n%s", diff)
		}
		if stack.Top() != "div" {
			t.Errorf("Top() = %q, want div", stack.Top())
		}
	})

	t.Run("should pop an empty stack harmlessly", func(t *testing.T) {
		var stack ml_parser.TagStack
		if got := stack.Pop(); got != "" {
			t.Errorf("Pop() = %q, want empty", got)
		}
		if got := stack.Top(); got != "" {
			t.Errorf("Top() = %q, want empty", got)
		}
	})
}

func TestTagDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		class   ml_parser.TagClass
		content ml_parser.TagContentType
		known   bool
	}{
		{"BR", ml_parser.TagClassVoid, ml_parser.TagContentTypePARSABLE_DATA, true},
		{"script", ml_parser.TagClassRawText, ml_parser.TagContentTypeRAW_TEXT, true},
		{"textarea", ml_parser.TagClassEscapableRawText, ml_parser.TagContentTypeESCAPABLE_RAW_TEXT, true},
		{"li", ml_parser.TagClassOptionalEndTag, ml_parser.TagContentTypePARSABLE_DATA, true},
		{"svg", ml_parser.TagClassNormal, ml_parser.TagContentTypePARSABLE_DATA, true},
		{"my-element", ml_parser.TagClassNormal, ml_parser.TagContentTypePARSABLE_DATA, false},
		{"Widget", ml_parser.TagClassNormal, ml_parser.TagContentTypePARSABLE_DATA, false},
		{"svelte:head", ml_parser.TagClassNormal, ml_parser.TagContentTypePARSABLE_DATA, false},
	}
	for _, tc := range tests {
		t.Run("should classify "+tc.name, func(t *testing.T) {
			def := ml_parser.GetHtmlTagDefinition(tc.name)
			if def.Class() != tc.class {
				t.Errorf("Class() = %v, want %v", def.Class(), tc.class)
			}
			if def.GetContentType() != tc.content {
				t.Errorf("GetContentType() = %v, want %v", def.GetContentType(), tc.content)
			}
			if def.IsKnown() != tc.known {
				t.Errorf("IsKnown() = %v, want %v", def.IsKnown(), tc.known)
			}
		})
	}

	t.Run("should allow omitting document end tags", func(t *testing.T) {
		for _, name := range []string{"html", "head", "body"} {
			if got := ml_parser.GetHtmlTagDefinition(name).Class(); got != ml_parser.TagClassOptionalEndTag {
				t.Errorf("%s: Class() = %v, want OptionalEndTag", name, got)
			}
		}
		if !ml_parser.GetHtmlTagDefinition("head").IsClosedByChild("body") {
			t.Errorf("head should be closed by body")
		}
		if ml_parser.GetHtmlTagDefinition("body").IsClosedByChild("div") {
			t.Errorf("body should not be closed by a child")
		}
	})
}

func TestTagNames(t *testing.T) {
	t.Run("should compare end tag names", func(t *testing.T) {
		if !ml_parser.SameTagName("div", "DIV") {
			t.Errorf("known names should match case-insensitively")
		}
		if ml_parser.SameTagName("Widget", "widget") {
			t.Errorf("custom names should match exactly")
		}
	})
}
