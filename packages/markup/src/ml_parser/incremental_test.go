package ml_parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/ml_parser"
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

var resumeInputs = []struct {
	layer *ml_parser.Layer
	input string
}{
	{&ml_parser.LayerHTML, "<ul><li>a<li>b</ul>"},
	{&ml_parser.LayerHTML, "<table><tr><td>a<td>b</table>\n<p>x<div>y</div>"},
	{&ml_parser.LayerHTML, "<!DOCTYPE html><title>a &amp; b</title><script>if (a < b) {}</script>"},
	{&ml_parser.LayerHTMLX, `<Button.Icon on:click|once={go} {disabled} {...rest} label="a {b}" />`},
	{&ml_parser.LayerSvelte, "<script lang=\"ts\">let a: number</script>\n{#each items as item, i (item.id)}\n\t<li>{item as string}</li>\n{:else}\n\t<p>none\n{/each}"},
	{&ml_parser.LayerSvelte, "<div>{#await p}<b>wait{:then v}{@html v}{:catch e}{e}{/await}"},
	{&ml_parser.LayerSvelte, "{#if a}<div>{/each}</div>{:foo}{@bar}<p"},
}

func tokenizeWithCheckpoints(layer *ml_parser.Layer, file *util.ParseSourceFile) *ml_parser.TokenizeResult {
	return ml_parser.TokenizeFile(file, ml_parser.TokenizeOptions{Layer: layer, Checkpoints: boolPtr(true)})
}

func TestResume(t *testing.T) {
	for _, tc := range resumeInputs {
		t.Run("should resume "+tc.input, func(t *testing.T) {
			file := util.NewParseSourceFile(tc.input, "someUrl")
			full := tokenizeWithCheckpoints(tc.layer, file)
			if len(full.Checkpoints) != len(full.Tokens) {
				t.Fatalf("len(Checkpoints) = %d, want %d", len(full.Checkpoints), len(full.Tokens))
			}

			for i, cp := range full.Checkpoints {
				resumed := ml_parser.ResumeTokenize(file, cp, ml_parser.TokenizeOptions{Layer: tc.layer})
				if diff := cmp.Diff(humanizeStream(full.Tokens[i+1:]), humanizeStream(resumed.Tokens)); diff != "" {
					t.Fatalf("resume after token %d mismatch (-want +got):\n%s", i, diff)
				}
			}
		})
	}

	t.Run("should resume from serialized state", func(t *testing.T) {
		for _, tc := range resumeInputs {
			file := util.NewParseSourceFile(tc.input, "someUrl")
			full := tokenizeWithCheckpoints(tc.layer, file)
			for i, cp := range full.Checkpoints {
				state, err := ml_parser.DeserializeState(cp.Serialize())
				if err != nil {
					t.Fatalf("DeserializeState() error = %v", err)
				}
				restored := ml_parser.Checkpoint{Offset: cp.Offset, State: state}
				resumed := ml_parser.ResumeTokenize(file, restored, ml_parser.TokenizeOptions{Layer: tc.layer})
				if diff := cmp.Diff(humanizeStream(full.Tokens[i+1:]), humanizeStream(resumed.Tokens)); diff != "" {
					t.Fatalf("%q: resume after token %d mismatch (-want +got):\n%s", tc.input, i, diff)
				}
			}
		}
	})

	t.Run("should continue token by token", func(t *testing.T) {
		file := util.NewParseSourceFile("<p>a<p>b", "someUrl")
		full := tokenizeWithCheckpoints(&ml_parser.LayerHTML, file)
		tokenizer := ml_parser.Resume(file, full.Checkpoints[1], ml_parser.TokenizeOptions{})
		token := tokenizer.Next()
		if token == nil || token.Type() != ml_parser.TokenTypeTEXT {
			t.Fatalf("Next() = %v, want TEXT", token)
		}
		if diff := cmp.Diff(full.Checkpoints[2], tokenizer.Checkpoint(), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Checkpoint() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLastCheckpointBefore(t *testing.T) {
	file := util.NewParseSourceFile("<a>b</a>", "someUrl")
	checkpoints := tokenizeWithCheckpoints(&ml_parser.LayerHTML, file).Checkpoints

	tests := []struct {
		offset   int
		expected int
	}{
		{0, 0},
		{1, 0},
		{3, 3},
		{5, 4},
		{100, 8},
	}
	for _, tc := range tests {
		if got := ml_parser.LastCheckpointBefore(checkpoints, tc.offset).Offset; got != tc.expected {
			t.Errorf("LastCheckpointBefore(%d).Offset = %d, want %d", tc.offset, got, tc.expected)
		}
	}

	t.Run("should fall back to the initial state", func(t *testing.T) {
		cp := ml_parser.LastCheckpointBefore(checkpoints, 1)
		if diff := cmp.Diff(ml_parser.Checkpoint{}, cp); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should return the final state past the end", func(t *testing.T) {
		if !ml_parser.LastCheckpointBefore(checkpoints, 100).State.Done {
			t.Errorf("the last checkpoint should be done")
		}
	})
}

func TestResume_Edit(t *testing.T) {
	t.Run("should rescan only from the checkpoint before an edit", func(t *testing.T) {
		layer := &ml_parser.LayerSvelte
		before := "<div>{#if a}<p>one</p>{:else}<p>two</p>{/if}</div>"
		edit := strings.Index(before, "one") + 1
		after := before[:edit] + "{x}<b>" + before[edit:]

		oldResult := tokenizeWithCheckpoints(layer, util.NewParseSourceFile(before, "someUrl"))
		cp := ml_parser.LastCheckpointBefore(oldResult.Checkpoints, edit)
		index := -1
		for i, c := range oldResult.Checkpoints {
			if c.Offset <= edit {
				index = i
			}
		}

		newFile := util.NewParseSourceFile(after, "someUrl")
		fresh := tokenizeWithCheckpoints(layer, newFile)
		resumed := ml_parser.ResumeTokenize(newFile, cp, ml_parser.TokenizeOptions{Layer: layer})
		if diff := cmp.Diff(humanizeStream(fresh.Tokens[index+1:]), humanizeStream(resumed.Tokens)); diff != "" {
			t.Errorf("resumed stream mismatch (-want +got):\n%s", diff)
		}
	})
}
