package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/ml_parser"
	"github.com/themixednuts/tree-sitter-htmlx/packages/markup/src/util"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, `htmlx - layered markup scanner
Usage: htmlx <command> [flags] [path ...]

Commands:
  tokens   Print the token stream of each file
  parse    Print the syntax tree of each file as an S-expression
  check    Report scan errors only
  help     Show help

Flags:
  -layer html|htmlx|svelte   Language layer (default svelte)
  -format text|json          Output format (default text)
  -strict                    Stop each file at its first error
  -ts                        Start in TypeScript mode
  -j N                       Files scanned in parallel
  -v                         Debug logging

Directories are walked for .svelte, .html and .htmlx files.`)
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := os.Args[1]
	switch cmd {
	case "help", "-h", "--help":
		usage(os.Stdout)
	case "tokens", "parse", "check":
		err := run(context.Background(), cmd, os.Args[2:], os.Stdout, os.Stderr)
		if err == nil {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		var parseErr *util.ParseError
		if errors.As(err, &parseErr) {
			os.Exit(1)
		}
		os.Exit(2)
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
}

// config is the parsed command line of one invocation
type config struct {
	command    string
	layer      *ml_parser.Layer
	format     string
	strict     bool
	typeScript bool
	jobs       int
	verbose    bool
}

func parseFlags(cmd string, args []string, stderr io.Writer) (*config, []string, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	cfg := &config{command: cmd}
	layerName := fs.String("layer", ml_parser.LayerSvelte.Name, "language layer")
	fs.StringVar(&cfg.format, "format", "text", "output format")
	fs.BoolVar(&cfg.strict, "strict", false, "stop at the first error")
	fs.BoolVar(&cfg.typeScript, "ts", false, "start in TypeScript mode")
	fs.IntVar(&cfg.jobs, "j", runtime.NumCPU(), "files scanned in parallel")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	layer, ok := ml_parser.LayerByName(*layerName)
	if !ok {
		return nil, nil, fmt.Errorf("unknown layer %q", *layerName)
	}
	cfg.layer = &layer
	if cfg.format != "text" && cfg.format != "json" {
		return nil, nil, fmt.Errorf("unknown format %q", cfg.format)
	}
	if cfg.jobs < 1 {
		cfg.jobs = 1
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}
	return cfg, paths, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// run executes one command. A returned error wraps the first
// *util.ParseError when the scan itself succeeded but found problems.
func run(ctx context.Context, cmd string, args []string, stdout, stderr io.Writer) error {
	cfg, paths, err := parseFlags(cmd, args, stderr)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cfg.verbose)

	files, err := collectFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Info("no markup files found", "paths", paths)
		return nil
	}
	logger.Debug("scanning", "files", len(files), "layer", cfg.layer.Name, "jobs", cfg.jobs)

	results, err := scanFiles(ctx, files, cfg, logger)
	if err != nil {
		return err
	}
	if err := writeResults(stdout, results, cfg); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	var first *util.ParseError
	problems, failing := 0, 0
	for _, res := range results {
		if len(res.errors) == 0 {
			continue
		}
		if first == nil {
			first = res.errors[0]
		}
		problems += len(res.errors)
		failing++
	}
	if first == nil {
		logger.Debug("done", "files", len(results))
		return nil
	}
	return fmt.Errorf("%d problem(s) in %d file(s), first: %w", problems, failing, first)
}
