package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowexpr/fex/registry"
)

// docsCmd represents the docs command.
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate operator/action reference documentation",
	Long: `Generate Markdown (or JSON, with --output json) reference documentation
for every registered operator and action type, grouped by category.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		operators, actions := builtinCatalog()
		all := append(append([]registry.Metadata{}, operators...), actions...)
		sort.Slice(all, func(i, j int) bool {
			if all[i].Category != all[j].Category {
				return all[i].Category < all[j].Category
			}
			return all[i].Type < all[j].Type
		})

		if output == jsonFormat {
			data, err := json.MarshalIndent(all, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Print(renderMarkdownDocs(all))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

// renderMarkdownDocs renders metadata entries as a Markdown reference
// document, grouped by category.
func renderMarkdownDocs(entries []registry.Metadata) string {
	var sb strings.Builder
	sb.WriteString("# fex Operator & Action Reference\n\n")

	byCategory := make(map[string][]registry.Metadata)
	for _, m := range entries {
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("## %s\n\n", cat))
		for _, m := range byCategory[cat] {
			sb.WriteString(fmt.Sprintf("### %s\n\n%s\n\n", m.Type, m.Description))
			if m.Since != "" {
				sb.WriteString(fmt.Sprintf("Since: %s\n\n", m.Since))
			}
			if len(m.ConfigSchema) > 0 {
				schemaJSON, _ := json.MarshalIndent(m.ConfigSchema, "", "  ")
				sb.WriteString("Configuration:\n\n```json\n")
				sb.Write(schemaJSON)
				sb.WriteString("\n```\n\n")
			}
			for _, ex := range m.Examples {
				sb.WriteString(fmt.Sprintf("Example: %s\n\n", ex.Name))
				if ex.Description != "" {
					sb.WriteString(ex.Description + "\n\n")
				}
			}
		}
	}
	return sb.String()
}
