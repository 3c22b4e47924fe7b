package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowexpr/fex/script"
	fexyaml "github.com/flowexpr/fex/yaml"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate <flow.yaml>",
	Short: "Validate a flow-expression document without running it",
	Long: `Parse a flow-expression YAML document, check its structure, and resolve
every operator/action name it references against the builtin registry —
without running it against any input.`,
	Example: `  # Validate a document
  fex validate digits.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateFlow(args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateFlow(filePath string) error {
	filePath, err := expandPath(filePath)
	if err != nil {
		return fmt.Errorf("expand path: %w", err)
	}

	def, err := fexyaml.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("structure: %w", err)
	}

	scripts := script.NewManager("", verbose)
	_ = scripts.Discover()

	loader := fexyaml.NewLoader(newRegistry(scripts))
	if _, err := loader.LoadDefinition(def); err != nil {
		return fmt.Errorf("build: %w", err)
	}

	fmt.Printf("%q is valid (root: %s)\n", filePath, def.Name)
	return nil
}
