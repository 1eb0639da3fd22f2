package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"threatvisor/internal/dsl"
)

var rootCmd = &cobra.Command{
	Use:   "threatvisor",
	Short: "ThreatVisor - architecture threat modeling",
	Long: `ThreatVisor turns a declarative architecture definition (YAML or JSON)
into a diagram and an LLM-assisted threat analysis, with severity-gated
exit codes for CI pipelines.`,
	SilenceUsage: true,
}

// loadDefinition reads and validates a definition file. Both the parsed
// definition and the raw text are returned; the text stays authoritative.
func loadDefinition(path string) (*dsl.Definition, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	def, err := dsl.Parse(raw)
	if err != nil {
		return nil, "", err
	}
	if err := dsl.Validate(def); err != nil {
		return nil, "", err
	}
	return def, string(raw), nil
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
