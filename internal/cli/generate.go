package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codedoc/internal/config"
	"github.com/mvp-joe/codedoc/internal/docgen"
	"github.com/mvp-joe/codedoc/internal/walker"
	"github.com/mvp-joe/codedoc/internal/watcher"
)

// newGenerateCmd creates the generate command
func newGenerateCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "generate [root]",
		Short: "Generate markdown documentation for a source tree",
		Long: `Generate walks root (default ".") for Python source files, extracts
their structure, and writes a markdown document.

Files that cannot be read or parsed are reported on stderr and left out;
the rest of the tree is still documented.

Examples:
  # Document the current directory into documentation.md
  codedoc generate

  # Signatures only, written to docs/api.md
  codedoc generate ./src --style brief -o docs/api.md

  # Regenerate whenever a source file changes
  codedoc generate --watch
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().StringP("output", "o", defaults.Output, "Output markdown file")
	cmd.Flags().String("style", defaults.Style, "Render style: detailed or brief")
	cmd.Flags().String("suffix", defaults.Suffix, "Source file suffix to document")
	cmd.Flags().IntP("concurrency", "j", defaults.Concurrency, "Files extracted in parallel (0 = one per CPU)")
	cmd.Flags().String("title", defaults.Title, "Document title")
	cmd.Flags().StringSlice("ignore", nil, "Glob pattern to skip, relative to root (repeatable)")
	cmd.Flags().BoolP("quiet", "q", false, "Disable progress bars and non-error output")
	cmd.Flags().BoolP("watch", "w", false, "Watch for file changes and regenerate")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted! Cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	watch, _ := cmd.Flags().GetBool("watch")
	out := cmd.OutOrStdout()

	reporter := walker.NewLogReporter(cmd.ErrOrStderr())
	progress := NewCLIProgressReporter(cmd.ErrOrStderr(), quiet)

	gen, err := docgen.FromConfig(cfg, reporter, progress)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	if err := generateOnce(ctx, gen, out, quiet); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("generation cancelled")
		}
		return err
	}

	if !watch {
		return nil
	}

	return watchAndRegenerate(ctx, cfg, gen, out, quiet)
}

func generateOnce(ctx context.Context, gen *docgen.Generator, out io.Writer, quiet bool) error {
	result, err := gen.Generate(ctx)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(out, "✓ Wrote %s (%s files, %s bytes) in %.2fs\n",
			result.Output, formatNumber(result.Files), formatNumber(result.Bytes), result.Duration.Seconds())
	}
	return nil
}

// watchAndRegenerate reruns the whole pipeline after each debounced batch of
// source changes until ctx is cancelled.
func watchAndRegenerate(ctx context.Context, cfg *config.Config, gen *docgen.Generator, out io.Writer, quiet bool) error {
	fw, err := watcher.New(cfg.Root, cfg.Suffix, watcher.WithIgnore(cfg.Ignore))
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Stop()

	if !quiet {
		log.Printf("Watching %s for %s changes (Ctrl+C to stop)...", cfg.Root, cfg.Suffix)
	}

	if err := fw.Start(ctx, regenerateOnChange(ctx, fw, gen, out, quiet)); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	<-ctx.Done()

	if !quiet {
		log.Println("Watch mode stopped")
	}
	return nil
}

// regenerateOnChange returns the watch callback. The watcher is paused while
// the document is rebuilt so edits made during a run batch into the next one.
func regenerateOnChange(ctx context.Context, fw watcher.FileWatcher, gen *docgen.Generator, out io.Writer, quiet bool) func(files []string) {
	return func(files []string) {
		fw.Pause()
		defer fw.Resume()

		if !quiet {
			log.Printf("Detected %d changed files, regenerating...", len(files))
		}
		if err := generateOnce(ctx, gen, out, quiet); err != nil && ctx.Err() == nil {
			log.Printf("Warning: regeneration failed: %v", err)
		}
	}
}
