package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"threatvisor/internal/analysis"
	"threatvisor/internal/diagram"
	"threatvisor/internal/dsl"
	"threatvisor/internal/llm"
	"threatvisor/internal/report"
)

var (
	analyzeMethodology string
	analyzeFailOn      string
	analyzeOutput      string
	analyzeFormat      string
	analyzeTimeout     time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run a threat analysis on a definition file",
	Long: `Parse and validate the definition, run the configured analysis
providers, and print the findings. With --fail-on-severity the command
exits non-zero when any finding meets or exceeds the threshold, which is
what makes it usable as a CI gate.`,
	Args: cobra.ExactArgs(1),
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMethodology, "methodology", "STRIDE", "Threat modeling methodology")
	analyzeCmd.Flags().StringVar(&analyzeFailOn, "fail-on-severity", "", "Exit 1 when a finding is at or above this severity (Low, Medium, High, Critical)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "Write a report to this file")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "md", "Report format (md, json)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "Analysis timeout")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	if !analysis.KnownMethodology(analyzeMethodology) {
		fail("unknown methodology %q (known: %s)", analyzeMethodology, strings.Join(analysis.Methodologies, ", "))
	}
	var failOn analysis.Severity
	if analyzeFailOn != "" {
		sev, err := analysis.ParseSeverity(analyzeFailOn)
		if err != nil {
			fail("%v", err)
		}
		failOn = sev
	}
	if analyzeFormat != "md" && analyzeFormat != "json" {
		fail("format must be md or json")
	}

	def, text, err := loadDefinition(args[0])
	if err != nil {
		fail("%v", err)
	}

	orch, cleanup, err := newOrchestratorFromEnv()
	if err != nil {
		fail("%v", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	res, err := orch.Analyze(ctx, analysis.Request{
		DefinitionText: text,
		Methodology:    analyzeMethodology,
	})
	if err != nil {
		fail("%v", err)
	}

	findings := report.SortBySeverity(res.Findings)
	printFindings(def, findings)

	if analyzeOutput != "" {
		var body []byte
		switch analyzeFormat {
		case "md":
			body = []byte(report.Markdown(def, findings, text, diagram.Render(def, diagram.Options{})))
		case "json":
			body, err = report.JSON(def, findings, text)
			if err != nil {
				fail("%v", err)
			}
		}
		if err := os.WriteFile(analyzeOutput, body, 0o644); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Report written to %s\n", analyzeOutput)
	}

	if failOn != "" {
		if gated := analysis.AtOrAbove(findings, failOn); len(gated) > 0 {
			fmt.Fprintf(os.Stderr, "%d finding(s) at or above %s\n", len(gated), failOn)
			os.Exit(1)
		}
	}
}

// newOrchestratorFromEnv builds the provider chain the same way the
// gateway does: Gemini primary, optional OpenAI-compatible fallback.
func newOrchestratorFromEnv() (*analysis.Orchestrator, func(), error) {
	geminiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if geminiKey == "" {
		return nil, nil, fmt.Errorf("analysis requires GEMINI_API_KEY")
	}
	geminiModel := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash"
	}
	primary, err := llm.NewGeminiClient(context.Background(), geminiKey, geminiModel)
	if err != nil {
		return nil, nil, err
	}

	var fallback llm.Client
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
		if model == "" {
			model = "gpt-4o-mini"
		}
		fallback = llm.NewOpenAIClient(key, strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")), model)
	}

	cleanup := func() {
		_ = primary.Close()
		if fallback != nil {
			_ = fallback.Close()
		}
	}
	return analysis.New(primary, fallback), cleanup, nil
}

func printFindings(def *dsl.Definition, findings []analysis.Finding) {
	if len(findings) == 0 {
		fmt.Println("No threats identified.")
		return
	}
	names := def.NameLookup()
	fmt.Printf("%d threat(s) identified:\n\n", len(findings))
	for _, f := range findings {
		component := f.AffectedComponentID
		if name, ok := names[component]; ok {
			component = name
		}
		fmt.Printf("[%s] %s: %s\n", f.Severity, component, f.Threat)
		fmt.Printf("    Mitigation: %s\n", f.Mitigation)
	}
}
