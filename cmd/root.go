package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/don7panic/classgen/errors"
	"github.com/don7panic/classgen/logger"
)

// NewRootCmd builds the classgen command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "classgen",
		Short: "Generate Mermaid class diagrams from Go source or class descriptors",
		Long: `classgen builds a class model from Go packages or from a YAML/JSON class
descriptor file and writes it as a Mermaid classDiagram.

Examples:
  classgen class ./...                     # every package below the current directory
  classgen -d LR class ./internal/store    # one package, left to right
  classgen -o docs/arch.md class model.yaml --uses --text`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			if err := logger.Initialize(verbosity, logJSON); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			logger.Named("cmd").Debugw("logger initialized", "level", logger.LevelName(verbosity), "json", logJSON)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Cleanup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("direction", "d", "TB", "Direction of the diagram (LR, RL, TB, BT)")
	flags.StringP("output", "o", "", "File to append the diagram to (default: stdout)")
	flags.Bool("no-md", false, "Do not wrap the diagram in a markdown code block")
	flags.String("config", "", "Config file (default: nearest classgen.toml)")
	flags.CountP("verbose", "v", "Increase log verbosity (-v, -vv)")
	flags.Bool("log-json", false, "Write logs as JSON")

	_ = rootCmd.RegisterFlagCompletionFunc("direction", completeDirections)

	rootCmd.AddCommand(newClassCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)
	if hint := errors.FlattenHints(err); hint != "" {
		_, _ = color.New(color.FgYellow).Fprintln(w, "Hint: "+hint)
	}
	if errors.IsConfigError(err) {
		fmt.Fprintln(w, "Run 'classgen class --help' for usage.")
	}
}
