package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codedoc/internal/config"
	"github.com/mvp-joe/codedoc/internal/docgen"
	"github.com/mvp-joe/codedoc/internal/walker"
)

// newDumpCmd creates the dump command
func newDumpCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "dump [root]",
		Short: "Print extracted metadata as YAML or JSON",
		Long: `Dump walks root (default ".") exactly like generate but prints the
extracted metadata instead of rendering markdown.

Examples:
  codedoc dump ./src
  codedoc dump --format json > metadata.json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDump,
	}

	cmd.Flags().String("format", string(docgen.FormatYAML), "Output format: yaml or json")
	cmd.Flags().String("suffix", defaults.Suffix, "Source file suffix to document")
	cmd.Flags().IntP("concurrency", "j", defaults.Concurrency, "Files extracted in parallel (0 = one per CPU)")
	cmd.Flags().StringSlice("ignore", nil, "Glob pattern to skip, relative to root (repeatable)")

	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := docgen.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	gen, err := docgen.FromConfig(cfg, walker.NewLogReporter(cmd.ErrOrStderr()), nil)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	return gen.Dump(cmd.Context(), cmd.OutOrStdout(), format)
}
