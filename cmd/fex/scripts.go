package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/script"
)

// scriptsCmd represents the scripts command.
var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "Manage Lua scripts",
	Long: `Discover, validate, and run Lua scripts.

Scripts are discovered from ~/.fex/scripts/ and registered as "script"
operators/actions for use in flow-expression documents. Each script
should have metadata comments describing its purpose.`,
	Example: `  # List all discovered scripts
  fex scripts

  # Validate a script file
  fex scripts validate my-script.lua

  # Run a script directly against an input string
  fex scripts run my-script "some input"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScriptsList(verbose)
	},
}

var scriptsValidateCmd = &cobra.Command{
	Use:   "validate <script-path>",
	Short: "Validate a Lua script",
	Long:  `Validate a Lua script's syntax and check that it defines an exec function. The script's top-level code runs once to do this; exec itself is not called.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScriptsValidate(args[0], verbose)
	},
}

var scriptsRunCmd = &cobra.Command{
	Use:   "run <script-name> [input]",
	Short: "Run a discovered script directly as a predicate",
	Long:  `Execute a discovered script's exec(input) function against an input string, reporting pass/fail and any captured value.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := ""
		if len(args) > 1 {
			input = args[1]
		}
		return runScriptsRun(args[0], input, verbose)
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
	scriptsCmd.AddCommand(scriptsValidateCmd)
	scriptsCmd.AddCommand(scriptsRunCmd)
}

func runScriptsList(verbose bool) error {
	manager := script.NewManager("", verbose)
	if err := manager.Discover(); err != nil {
		return fmt.Errorf("discover scripts: %w", err)
	}

	scripts := manager.ListScripts()
	if len(scripts) == 0 {
		fmt.Println("No scripts found in ~/.fex/scripts")
		fmt.Println("\nCreate a script with metadata like:")
		fmt.Println("-- @name: my-script")
		fmt.Println("-- @category: text")
		fmt.Println("-- @description: My custom predicate")
		fmt.Println("")
		fmt.Println("function exec(input)")
		fmt.Println("    return {pass = true, value = input}")
		fmt.Println("end")
		return nil
	}

	byCategory := make(map[string][]*script.Script)
	for _, s := range scripts {
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	fmt.Printf("\nDiscovered %d scripts:\n\n", len(scripts))
	for _, cat := range categories {
		fmt.Printf("%s:\n", cat)
		fmt.Println(strings.Repeat("-", len(cat)+1))

		catScripts := byCategory[cat]
		sort.Slice(catScripts, func(i, j int) bool { return catScripts[i].Name < catScripts[j].Name })

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, s := range catScripts {
			desc := s.Description
			if desc == "" {
				desc = "(no description)"
			}
			if s.Version != "" {
				_, _ = fmt.Fprintf(w, "  %s\t%s\t(v%s)\n", s.Name, desc, s.Version)
			} else {
				_, _ = fmt.Fprintf(w, "  %s\t%s\n", s.Name, desc)
			}
		}
		_ = w.Flush()
		fmt.Println()
	}

	return nil
}

func runScriptsValidate(scriptPath string, verbose bool) error {
	absPath, err := filepath.Abs(scriptPath)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("script not found: %w", err)
	}

	manager := script.NewManager("", verbose)
	fmt.Printf("Validating %s...\n", scriptPath)
	if err := manager.ValidateScript(absPath); err != nil {
		fmt.Printf("validation failed: %v\n", err)
		return err
	}
	fmt.Println("script is valid")

	if s, err := manager.LoadScript(absPath); err == nil && s.Name != "" {
		fmt.Printf("\nMetadata:\n  Name: %s\n", s.Name)
		if s.Category != "" {
			fmt.Printf("  Category: %s\n", s.Category)
		}
		if s.Description != "" {
			fmt.Printf("  Description: %s\n", s.Description)
		}
	}
	return nil
}

func runScriptsRun(scriptName, input string, verbose bool) error {
	manager := script.NewManager("", verbose)
	if err := manager.Discover(); err != nil {
		return fmt.Errorf("discover scripts: %w", err)
	}
	s, found := manager.GetScript(scriptName)
	if !found {
		return fmt.Errorf("script %q not found", scriptName)
	}

	ctx := newTextContext(input)
	slot := &fex.ValueSlot{}
	passed := script.ExecutePredicate(s.Content, ctx, slot)

	fmt.Printf("Result: %v\n", passed)
	if slot.HasValue() {
		fmt.Printf("Value: %v\n", slot.Value())
	}
	if !passed {
		return fmt.Errorf("script reported failure")
	}
	return nil
}
