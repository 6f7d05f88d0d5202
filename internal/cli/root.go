package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/codedoc/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCmd()

// NewRootCmd builds the codedoc command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codedoc",
		Short: "Generate markdown documentation from Python source",
		Long: `codedoc scans a directory of Python source files, extracts module,
class and function metadata with tree-sitter, and renders it as a single
markdown document with a table of contents.

Configuration is read from <root>/.codedoc/config.yml, overridden by
CODEDOC_* environment variables (a .env file in the working directory is
loaded first), overridden by command-line flags.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is fine
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default is <root>/.codedoc/config.yml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newDumpCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the scan root from args and loads configuration for
// it, letting any flags the user set on cmd win.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	opts := []config.LoaderOption{config.WithFlags(cmd.Flags())}
	if f := cmd.Flag("config"); f != nil && f.Value.String() != "" {
		opts = append(opts, config.WithConfigFile(f.Value.String()))
	}

	cfg, err := config.LoadConfigFromDir(root, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if isVerbose(cmd) {
		log.Printf("Config: root=%s output=%s style=%s suffix=%s concurrency=%d ignore=%v",
			cfg.Root, cfg.Output, cfg.Style, cfg.Suffix, cfg.Concurrency, cfg.Ignore)
	}

	return cfg, nil
}

func isVerbose(cmd *cobra.Command) bool {
	f := cmd.Flag("verbose")
	return f != nil && f.Value.String() == "true"
}
