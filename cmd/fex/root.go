package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags.
	verbose bool
	output  string
	noColor bool

	// logger is replaced once rootCmd's PersistentPreRunE sees the parsed
	// --verbose flag, so every subcommand logs at the right level. It
	// starts as a no-op so code paths invoked directly in tests (which
	// bypass cobra's Execute) never dereference a nil logger.
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fex",
	Short: "Build and run flow-expression axioms",
	Long: `fex builds and runs flow-expression axioms declared in YAML.

A flow expression is a tree of nodes - sequences, alternatives, repeats,
operators, and actions - that drives a user-supplied context, canonically
for recursive-descent parsing. This CLI runs axioms against a small
built-in text-scanning context, and can load Lua scripts and WASM plugins
as additional operator and action types.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose)
		return err
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&output, "output", "text", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
