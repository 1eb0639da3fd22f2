package report

import (
	"encoding/json"
	"time"

	"threatvisor/internal/analysis"
	"threatvisor/internal/dsl"
)

type jsonMetadata struct {
	GeneratedAt    string `json:"generatedAt"`
	ComponentCount int    `json:"componentCount"`
	ThreatCount    int    `json:"threatCount"`
}

type jsonFinding struct {
	analysis.Finding
	AffectedComponentName string `json:"affectedComponentName"`
}

type jsonDocument struct {
	Metadata   jsonMetadata  `json:"metadata"`
	Definition string        `json:"definition"`
	Threats    []jsonFinding `json:"threats"`
}

// now is swapped out in tests for a fixed clock.
var now = time.Now

// JSON renders the machine-readable report: generation metadata, the
// source definition text, and findings annotated with the resolved
// component display names.
func JSON(def *dsl.Definition, findings []analysis.Finding, definitionText string) ([]byte, error) {
	names := def.NameLookup()
	doc := jsonDocument{
		Metadata: jsonMetadata{
			GeneratedAt:    now().UTC().Format(time.RFC3339),
			ComponentCount: len(def.Components),
			ThreatCount:    len(findings),
		},
		Definition: definitionText,
		Threats:    make([]jsonFinding, 0, len(findings)),
	}
	for _, f := range findings {
		doc.Threats = append(doc.Threats, jsonFinding{
			Finding:               f,
			AffectedComponentName: resolveName(names, f.AffectedComponentID),
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
