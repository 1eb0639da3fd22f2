package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Parse and validate a definition file",
	Args:  cobra.ExactArgs(1),
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	def, _, err := loadDefinition(args[0])
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("OK: %d component(s), %d flow(s), %d boundary(ies)\n",
		len(def.Components), len(def.DataFlows), len(def.TrustBoundaries))
}
