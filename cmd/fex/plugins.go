package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowexpr/fex"
	"github.com/flowexpr/fex/plugin/wasm"
	"github.com/flowexpr/fex/script"
)

// pluginsCmd represents the plugins command: fex has one CLI
// entrypoint, and loading/inspecting a plugin is a subcommand of it
// rather than a second main package.
var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Load and inspect WASM plugins",
	Long: `Load a WASM plugin module and list the operator types it exports, or
run one of its operators directly against an input string.`,
}

var pluginsLoadCmd = &cobra.Command{
	Use:   "load <plugin.wasm>",
	Short: "Load a WASM plugin and list its operators",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPluginsLoad(args[0])
	},
}

var pluginsRunCmd = &cobra.Command{
	Use:   "run <plugin.wasm> <operator> [input]",
	Short: "Run one operator a plugin exports against an input string",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := ""
		if len(args) > 2 {
			input = args[2]
		}
		return runPluginsRun(args[0], args[1], input)
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
	pluginsCmd.AddCommand(pluginsLoadCmd)
	pluginsCmd.AddCommand(pluginsRunCmd)
}

func runPluginsLoad(path string) error {
	ctx := context.Background()
	p, err := wasm.LoadPlugin(ctx, path)
	if err != nil {
		return fmt.Errorf("load plugin: %w", err)
	}
	defer func() { _ = p.Close(ctx) }()

	meta := p.Metadata()
	fmt.Printf("Plugin: %s %s\n", meta.Name, meta.Version)
	if meta.Description != "" {
		fmt.Printf("Description: %s\n", meta.Description)
	}
	fmt.Printf("Operators:\n")
	for _, op := range meta.Operators {
		fmt.Printf("  %-16s %s\n", op.Type, op.Description)
	}
	return nil
}

func runPluginsRun(path, operatorType, input string) error {
	ctx := context.Background()
	p, err := wasm.LoadPlugin(ctx, path)
	if err != nil {
		return fmt.Errorf("load plugin: %w", err)
	}
	defer func() { _ = p.Close(ctx) }()

	r := newRegistry(script.NewManager("", false))
	wasm.Register[*textContext](r, ctx, p)

	pred, err := r.Operator(operatorType, nil)
	if err != nil {
		return fmt.Errorf("resolve operator: %w", err)
	}

	tctx := newTextContext(input)
	slot := &fex.ValueSlot{}
	passed := pred(tctx, slot)

	fmt.Printf("Result: %v\n", passed)
	if slot.HasValue() {
		fmt.Printf("Value: %v\n", slot.Value())
	}
	if !passed {
		return fmt.Errorf("operator reported failure")
	}
	return nil
}
