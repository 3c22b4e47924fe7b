package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	goyaml "github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/flowexpr/fex/registry"
	"github.com/flowexpr/fex/script"
)

// operatorsCmd represents the list-operators command.
var operatorsCmd = &cobra.Command{
	Use:     "list-operators",
	Aliases: []string{"operators"},
	Short:   "List available operator and action types",
	Long: `List the operator and action types a flow-expression document can
reference by name: fex's builtin operators plus the "script" operator and
action types, which run Lua scripts discovered under ~/.fex/scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperatorsList(output)
	},
}

// operatorsInfoCmd represents the list-operators info command.
var operatorsInfoCmd = &cobra.Command{
	Use:   "info <type>",
	Short: "Show detailed information about an operator or action type",
	Args:  cobra.ExactArgs(1),
	Example: `  # Get info about the literal operator
  fex list-operators info literal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperatorsInfo(args[0])
	},
}

func init() {
	rootCmd.AddCommand(operatorsCmd)
	operatorsCmd.AddCommand(operatorsInfoCmd)
}

func builtinCatalog() (operators, actions []registry.Metadata) {
	scripts := script.NewManager("", false)
	_ = scripts.Discover()
	r := newRegistry(scripts)
	return r.OperatorTypes(), r.ActionTypes()
}

func runOperatorsList(format string) error {
	operators, actions := builtinCatalog()
	sort.Slice(operators, func(i, j int) bool { return operators[i].Type < operators[j].Type })
	sort.Slice(actions, func(i, j int) bool { return actions[i].Type < actions[j].Type })

	switch format {
	case jsonFormat:
		data, err := json.MarshalIndent(map[string]interface{}{"operators": operators, "actions": actions}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	case yamlFormat:
		data, err := goyaml.Marshal(map[string]interface{}{"operators": operators, "actions": actions})
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	default:
		fmt.Println("Operators:")
		for _, m := range operators {
			fmt.Printf("  %-12s %s\n", m.Type, m.Description)
		}
		fmt.Println("\nActions:")
		for _, m := range actions {
			fmt.Printf("  %-12s %s\n", m.Type, m.Description)
		}
		fmt.Printf("\nTotal: %d operators, %d actions\n", len(operators), len(actions))
		fmt.Println("Use 'fex list-operators info <type>' for details.")
		return nil
	}
}

func runOperatorsInfo(typeName string) error {
	operators, actions := builtinCatalog()
	for _, m := range append(operators, actions...) {
		if m.Type != typeName {
			continue
		}
		fmt.Printf("Type: %s\n", m.Type)
		fmt.Printf("Category: %s\n", m.Category)
		fmt.Printf("Description: %s\n", m.Description)
		if m.Since != "" {
			fmt.Printf("Since: %s\n", m.Since)
		}
		if len(m.ConfigSchema) > 0 {
			fmt.Println("\nConfiguration:")
			schemaJSON, _ := json.MarshalIndent(m.ConfigSchema, "  ", "  ")
			fmt.Printf("  %s\n", schemaJSON)
		}
		if len(m.Examples) > 0 {
			fmt.Println("\nExamples:")
			for i, ex := range m.Examples {
				fmt.Printf("  %d. %s\n", i+1, ex.Name)
				if ex.Description != "" {
					fmt.Printf("     %s\n", ex.Description)
				}
				if len(ex.Config) > 0 {
					configYAML, _ := goyaml.Marshal(ex.Config)
					for _, line := range strings.Split(strings.TrimRight(string(configYAML), "\n"), "\n") {
						fmt.Printf("       %s\n", line)
					}
				}
			}
		}
		return nil
	}
	return fmt.Errorf("type %q not found", typeName)
}
