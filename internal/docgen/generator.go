package docgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/codedoc/internal/config"
	"github.com/mvp-joe/codedoc/internal/extractor"
	"github.com/mvp-joe/codedoc/internal/metadata"
	"github.com/mvp-joe/codedoc/internal/render"
	"github.com/mvp-joe/codedoc/internal/syntax"
	"github.com/mvp-joe/codedoc/internal/walker"
)

// ErrWriteFailure indicates the output document could not be written.
var ErrWriteFailure = errors.New("write failure")

// Collector gathers metadata for every source file under a root.
// *walker.Walker satisfies it.
type Collector interface {
	CollectWithStats(ctx context.Context, root string) ([]*metadata.FileMetadata, *walker.Stats, error)
}

// Format selects the encoding used by Dump.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat parses "yaml" (or "yml") and "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: yaml, json)", s)
}

// Options configures a Generator.
type Options struct {
	Root   string
	Output string
	Render render.Options
}

// Result summarizes one Generate run.
type Result struct {
	Output   string
	Files    int
	Bytes    int
	Stats    *walker.Stats
	Duration time.Duration
}

// Generator runs the whole pipeline: collect, render, write.
type Generator struct {
	collector Collector
	renderer  *render.Renderer
	root      string
	output    string
}

// New creates a Generator.
func New(collector Collector, opts Options) *Generator {
	return &Generator{
		collector: collector,
		renderer:  render.New(opts.Render),
		root:      opts.Root,
		output:    opts.Output,
	}
}

// FromConfig wires the Python parser, extractor and walker described by cfg.
// reporter and progress may be nil to use the walker defaults.
func FromConfig(cfg *config.Config, reporter walker.ErrorReporter, progress walker.ProgressReporter) (*Generator, error) {
	opts := cfg.WalkerOptions()
	opts.Reporter = reporter
	opts.Progress = progress

	w, err := walker.New(extractor.New(syntax.NewPythonParser()), opts)
	if err != nil {
		return nil, err
	}

	return New(w, Options{
		Root:   cfg.Root,
		Output: cfg.Output,
		Render: cfg.RenderOptions(),
	}), nil
}

// Generate collects metadata under the root, renders it and writes the
// document to the output path. The output file is replaced atomically, so
// it is either the previous document or the new one, never a partial write.
// An invalid root fails before anything is written.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	files, stats, err := g.collector.CollectWithStats(ctx, g.root)
	if err != nil {
		return nil, err
	}

	doc := g.renderer.Render(files)
	if err := writeFileAtomic(g.output, []byte(doc)); err != nil {
		return nil, err
	}

	return &Result{
		Output:   g.output,
		Files:    len(files),
		Bytes:    len(doc),
		Stats:    stats,
		Duration: time.Since(startTime),
	}, nil
}

// Dump collects metadata under the root and encodes it to w without
// rendering markdown.
func (g *Generator) Dump(ctx context.Context, w io.Writer, format Format) error {
	files, _, err := g.collector.CollectWithStats(ctx, g.root)
	if err != nil {
		return err
	}
	if files == nil {
		files = []*metadata.FileMetadata{}
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(files); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(files); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (valid: yaml, json)", format)
	}
}
