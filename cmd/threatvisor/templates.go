package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"threatvisor/internal/dsl"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [id]",
	Short: "List built-in templates or print one",
	Args:  cobra.MaximumNArgs(1),
	Run:   runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		for _, t := range dsl.Templates() {
			fmt.Printf("%-30s %s\n", t.ID, t.Name)
		}
		return
	}
	t, ok := dsl.TemplateByID(args[0])
	if !ok {
		fail("unknown template %q", args[0])
	}
	fmt.Print(t.Content)
}
