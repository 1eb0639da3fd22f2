package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"threatvisor/internal/diagram"
)

var (
	renderIcons       bool
	renderInteractive bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Emit Mermaid markup for a definition file",
	Args:  cobra.ExactArgs(1),
	Run:   runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&renderIcons, "icons", false, "Include per-kind icon glyphs in node labels")
	renderCmd.Flags().BoolVar(&renderInteractive, "interactive", false, "Append click bindings for embedding")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) {
	def, _, err := loadDefinition(args[0])
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(diagram.Render(def, diagram.Options{
		IncludeIcons: renderIcons,
		Interactive:  renderInteractive,
	}))
}
