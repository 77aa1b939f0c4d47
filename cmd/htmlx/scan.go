package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/ml_parser"
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

var markupExtensions = map[string]bool{
	".svelte": true,
	".html":   true,
	".htmlx":  true,
}

// fileResult is the outcome of scanning one file
type fileResult struct {
	path   string
	tokens []*ml_parser.Token
	nodes  []ml_parser.Node
	errors []*util.ParseError
}

// collectFiles expands directories into the markup files below them.
// Explicit file arguments are kept whatever their extension.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if path != root && (name == "node_modules" || name == "dist" || strings.HasPrefix(name, ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if markupExtensions[filepath.Ext(path)] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return files, nil
}

// scanFiles scans files concurrently. Results keep the order of files.
func scanFiles(ctx context.Context, files []string, cfg *config, logger *slog.Logger) ([]*fileResult, error) {
	results := make([]*fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := scanFile(path, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			logger.Debug("scanned", "file", path, "tokens", len(res.tokens), "errors", len(res.errors), "elapsed", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func scanFile(path string, cfg *config) (*fileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	file, err := util.NewParseSourceFileFromBytes(data, path)
	if err != nil {
		return nil, err
	}

	opts := ml_parser.TokenizeOptions{
		Layer:      cfg.layer,
		Strict:     &cfg.strict,
		TypeScript: &cfg.typeScript,
	}
	res := &fileResult{path: path}
	if cfg.command == "parse" {
		tree := ml_parser.NewParser(cfg.layer).ParseFile(file, &opts)
		res.nodes = tree.RootNodes
		res.errors = tree.Errors
		return res, nil
	}
	tokenized := ml_parser.TokenizeFile(file, opts)
	res.tokens = tokenized.Tokens
	res.errors = tokenized.Errors
	return res, nil
}
