package main

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/ml_parser"
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

type fileJSON struct {
	File   string      `json:"file"`
	Tokens []tokenJSON `json:"tokens,omitempty"`
	Sexp   string      `json:"sexp,omitempty"`
	Errors []errorJSON `json:"errors,omitempty"`
}

type tokenJSON struct {
	Type   string      `json:"type"`
	Start  int         `json:"start"`
	End    int         `json:"end"`
	Text   string      `json:"text"`
	Parts  []string    `json:"parts,omitempty"`
	Fields []fieldJSON `json:"fields,omitempty"`
}

type fieldJSON struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

type errorJSON struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
}

func writeResults(w io.Writer, results []*fileResult, cfg *config) error {
	if cfg.format == "json" {
		out := make([]fileJSON, 0, len(results))
		for _, res := range results {
			out = append(out, toJSON(res, cfg.command))
		}
		if err := json.MarshalWrite(w, out, jsontext.WithIndent("  ")); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}

	for _, res := range results {
		if err := writeText(w, res, cfg.command, len(results) > 1); err != nil {
			return err
		}
	}
	return nil
}

func writeText(w io.Writer, res *fileResult, command string, header bool) error {
	if header && command != "check" {
		if _, err := fmt.Fprintf(w, "== %s\n", res.path); err != nil {
			return err
		}
	}
	switch command {
	case "tokens":
		for _, token := range res.tokens {
			if _, err := fmt.Fprintln(w, token); err != nil {
				return err
			}
		}
	case "parse":
		if _, err := fmt.Fprintln(w, ml_parser.ToSexp(res.nodes)); err != nil {
			return err
		}
	}
	for _, e := range res.errors {
		if _, err := fmt.Fprintln(w, e.String()); err != nil {
			return err
		}
	}
	return nil
}

func toJSON(res *fileResult, command string) fileJSON {
	out := fileJSON{File: res.path}
	switch command {
	case "tokens":
		out.Tokens = make([]tokenJSON, 0, len(res.tokens))
		for _, token := range res.tokens {
			out.Tokens = append(out.Tokens, tokenToJSON(token))
		}
	case "parse":
		out.Sexp = ml_parser.ToSexp(res.nodes)
	}
	for _, e := range res.errors {
		out.Errors = append(out.Errors, errorToJSON(e))
	}
	return out
}

func tokenToJSON(token *ml_parser.Token) tokenJSON {
	span := token.SourceSpan()
	out := tokenJSON{
		Type:  token.Type().String(),
		Start: span.Start.Offset,
		End:   span.End.Offset,
		Text:  span.String(),
		Parts: token.Parts(),
	}
	for _, f := range token.Fields() {
		out.Fields = append(out.Fields, fieldJSON{
			Name:  f.Name,
			Start: f.Span.Start.Offset,
			End:   f.Span.End.Offset,
			Text:  f.Span.String(),
		})
	}
	return out
}

func errorToJSON(e *util.ParseError) errorJSON {
	out := errorJSON{Kind: e.Kind.String(), Message: e.Msg}
	if e.Span != nil && e.Span.Start != nil {
		out.Line = e.Span.Start.Line
		out.Col = e.Span.Start.Col
	}
	return out
}
