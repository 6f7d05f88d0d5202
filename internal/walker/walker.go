package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/mvp-joe/codedoc/internal/metadata"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidRoot indicates the root path does not exist or is not a directory.
	ErrInvalidRoot = errors.New("invalid root")

	// ErrReadFailure indicates a source file could not be read.
	ErrReadFailure = errors.New("read failure")
)

// DefaultSuffix is the source file suffix recognized when none is configured.
const DefaultSuffix = ".py"

// Extractor produces metadata for a single source file.
type Extractor interface {
	Extract(ctx context.Context, relPath string, source []byte) (*metadata.FileMetadata, error)
}

// Options configures a Walker.
type Options struct {
	Suffix      string           // recognized file suffix, default ".py"
	Ignore      []string         // glob patterns relative to the root
	Concurrency int              // max files extracted at once, default runtime.NumCPU()
	Reporter    ErrorReporter    // per-file failure sink, default logs to stderr
	Progress    ProgressReporter // optional progress callbacks
}

// Stats describes the outcome of a walk.
type Stats struct {
	FilesDiscovered int
	FilesExtracted  int
	FilesFailed     int
	Duration        time.Duration
}

// Walker enumerates source files under a root and extracts each one.
type Walker struct {
	extractor   Extractor
	suffix      string
	ignore      []compiledPattern
	concurrency int
	reporter    ErrorReporter
	progress    ProgressReporter
}

// New creates a Walker. It fails only if an ignore pattern does not compile.
func New(extractor Extractor, opts Options) (*Walker, error) {
	ignore, err := compilePatterns(opts.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore pattern: %w", err)
	}

	w := &Walker{
		extractor:   extractor,
		suffix:      opts.Suffix,
		ignore:      ignore,
		concurrency: opts.Concurrency,
		reporter:    opts.Reporter,
		progress:    opts.Progress,
	}

	if w.suffix == "" {
		w.suffix = DefaultSuffix
	}
	if w.concurrency <= 0 {
		w.concurrency = runtime.NumCPU()
	}
	if w.reporter == nil {
		w.reporter = NewLogReporter(os.Stderr)
	}
	if w.progress == nil {
		w.progress = &NoOpProgressReporter{}
	}

	return w, nil
}

// Collect walks root and returns metadata for every file that extracted
// cleanly, ordered by relative path.
func (w *Walker) Collect(ctx context.Context, root string) ([]*metadata.FileMetadata, error) {
	files, _, err := w.CollectWithStats(ctx, root)
	return files, err
}

// CollectWithStats is Collect plus walk statistics.
//
// Only an invalid root or context cancellation fails the walk. Read and
// extraction failures are sent to the ErrorReporter and the file is left out.
func (w *Walker) CollectWithStats(ctx context.Context, root string) ([]*metadata.FileMetadata, *Stats, error) {
	startTime := time.Now()

	if err := validateRoot(root); err != nil {
		return nil, nil, err
	}

	w.progress.OnDiscoveryStart()
	discovery := &fileDiscovery{
		rootDir:        root,
		suffix:         w.suffix,
		ignorePatterns: w.ignore,
		reporter:       w.reporter,
	}
	candidates, err := discovery.discover()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	w.progress.OnDiscoveryComplete(len(candidates))

	// Each worker writes only its own slot, so no lock is needed.
	results := make([]*metadata.FileMetadata, len(candidates))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for i, c := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fm, err := w.processFile(gctx, c)
			w.progress.OnFileProcessed(c.relPath)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				w.reporter.Report(c.relPath, err)
				failed.Add(1)
				return nil
			}

			results[i] = fm
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	files := make([]*metadata.FileMetadata, 0, len(results))
	for _, fm := range results {
		if fm != nil {
			files = append(files, fm)
		}
	}

	stats := &Stats{
		FilesDiscovered: len(candidates),
		FilesExtracted:  len(files),
		FilesFailed:     int(failed.Load()),
		Duration:        time.Since(startTime),
	}
	w.progress.OnComplete(stats)

	return files, stats, nil
}

// processFile reads and extracts one candidate.
func (w *Walker) processFile(ctx context.Context, c candidate) (*metadata.FileMetadata, error) {
	source, err := os.ReadFile(c.path)
	if err != nil {
		return nil, readFailure(err)
	}
	return w.extractor.Extract(ctx, c.relPath, source)
}

// validateRoot checks that root names an existing directory.
func validateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}
	return nil
}

func readFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrReadFailure, err)
}
