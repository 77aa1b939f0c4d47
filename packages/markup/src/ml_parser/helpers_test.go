package ml_parser_test

import (
	"fmt"
	"testing"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/ml_parser"
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

func humanizeLineColumn(location *util.ParseLocation) string {
	return fmt.Sprintf("%d:%d", location.Line, location.Col)
}

func tokenize(input string, layer *ml_parser.Layer) *ml_parser.TokenizeResult {
	return ml_parser.Tokenize(input, "someUrl", ml_parser.TokenizeOptions{Layer: layer})
}

func tokenizeAndHumanizeParts(input string, layer *ml_parser.Layer) []interface{} {
	return humanizeParts(tokenize(input, layer).Tokens)
}

func humanizeParts(tokens []*ml_parser.Token) []interface{} {
	humanized := []interface{}{}
	for _, token := range tokens {
		parts := []interface{}{token.Type()}
		for _, part := range token.Parts() {
			parts = append(parts, part)
		}
		humanized = append(humanized, parts)
	}
	return humanized
}

func tokenizeAndHumanizeSourceSpans(input string, layer *ml_parser.Layer) []interface{} {
	humanized := []interface{}{}
	for _, token := range tokenize(input, layer).Tokens {
		humanized = append(humanized, []interface{}{token.Type(), token.SourceSpan().String()})
	}
	return humanized
}

// tokenizeAndHumanizeFields renders every named sub-span as "name=text".
func tokenizeAndHumanizeFields(input string, layer *ml_parser.Layer) []interface{} {
	humanized := []interface{}{}
	for _, token := range tokenize(input, layer).Tokens {
		humanized = append(humanized, humanizeFields(token))
	}
	return humanized
}

func humanizeFields(token *ml_parser.Token) []interface{} {
	fields := []interface{}{token.Type()}
	for _, f := range token.Fields() {
		fields = append(fields, f.Name+"="+f.Span.String())
	}
	return fields
}

func tokenizeAndHumanizeLineColumn(input string, layer *ml_parser.Layer) []interface{} {
	humanized := []interface{}{}
	for _, token := range tokenize(input, layer).Tokens {
		humanized = append(humanized, []interface{}{
			token.Type(),
			humanizeLineColumn(token.SourceSpan().Start),
		})
	}
	return humanized
}

func tokenizeAndHumanizeErrors(input string, layer *ml_parser.Layer) []interface{} {
	humanized := []interface{}{}
	for _, err := range tokenize(input, layer).Errors {
		humanized = append(humanized, []interface{}{
			err.Msg,
			humanizeLineColumn(err.Span.Start),
		})
	}
	return humanized
}

func tokenizeWithoutErrors(t *testing.T, input string, layer *ml_parser.Layer) *ml_parser.TokenizeResult {
	t.Helper()
	result := tokenize(input, layer)
	if len(result.Errors) > 0 {
		t.Fatalf("Unexpected errors: %s", util.JoinErrors(result.Errors))
	}
	return result
}

// humanizeStream renders tokens with their type, full text and parts so
// that two streams can be compared exactly.
func humanizeStream(tokens []*ml_parser.Token) []interface{} {
	humanized := []interface{}{}
	for _, token := range tokens {
		entry := []interface{}{token.Type(), token.SourceSpan().FullString()}
		for _, part := range token.Parts() {
			entry = append(entry, part)
		}
		humanized = append(humanized, entry)
	}
	return humanized
}

func parseSexp(input string, layer *ml_parser.Layer) string {
	result := ml_parser.NewParser(layer).Parse(input, "someUrl", nil)
	return ml_parser.ToSexp(result.RootNodes)
}

func boolPtr(b bool) *bool {
	return &b
}
