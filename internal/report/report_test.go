package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"threatvisor/internal/analysis"
	"threatvisor/internal/dsl"
)

func reportDef() *dsl.Definition {
	return &dsl.Definition{
		Components: []dsl.Component{
			{ID: "web", Name: "Web App", Kind: dsl.KindService},
			{ID: "db", Name: "User DB", Kind: dsl.KindDatastore},
		},
		DataFlows: []dsl.DataFlow{{From: "web", To: "db", Label: "queries"}},
	}
}

func cvss(v float64) *float64 { return &v }

func sampleFindings() []analysis.Finding {
	return []analysis.Finding{
		{
			Threat:              "SQL injection | via search",
			AffectedComponentID: "db",
			Severity:            analysis.SeverityHigh,
			Mitigation:          "Use parameterized queries.\nAudit inputs.",
			CVSS:                cvss(8.2),
			CWE:                 "CWE-89",
		},
		{
			Threat:              "Verbose errors leak internals",
			AffectedComponentID: "ghost",
			Severity:            analysis.SeverityLow,
			Mitigation:          "Return generic messages.",
		},
	}
}

func TestMarkdown_TableContent(t *testing.T) {
	out := Markdown(reportDef(), sampleFindings(), "components: []\n", "")
	for _, want := range []string{
		"# Threat Model Report",
		"```yaml\ncomponents: []\n```",
		"| Severity | Component | Threat | Mitigation | CVSS | CVE | CWE |",
		`| High | User DB | SQL injection \| via search | Use parameterized queries.<br />Audit inputs. | 8.2 | N/A | CWE-89 |`,
		"| Low | ghost | Verbose errors leak internals | Return generic messages. | N/A | N/A | N/A |",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## Diagram") {
		t.Fatal("diagram section rendered without markup")
	}
}

func TestMarkdown_DiagramSection(t *testing.T) {
	out := Markdown(reportDef(), nil, "components: []\n", "graph TD\n    web --> db\n")
	if !strings.Contains(out, "```mermaid\ngraph TD\n    web --> db\n```") {
		t.Fatalf("diagram fence wrong:\n%s", out)
	}
}

func TestRows_ResolvesNamesAndFallsBackToID(t *testing.T) {
	rows := Rows(reportDef(), sampleFindings())
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][1] != "User DB" {
		t.Fatalf("component name not resolved: %q", rows[0][1])
	}
	if rows[1][1] != "ghost" {
		t.Fatalf("unknown id not passed through: %q", rows[1][1])
	}
}

func TestSortBySeverity_StableAndNonMutating(t *testing.T) {
	in := []analysis.Finding{
		{Threat: "m1", Severity: analysis.SeverityMedium},
		{Threat: "c", Severity: analysis.SeverityCritical},
		{Threat: "m2", Severity: analysis.SeverityMedium},
	}
	out := SortBySeverity(in)
	want := []string{"c", "m1", "m2"}
	for i, w := range want {
		if out[i].Threat != w {
			t.Fatalf("order = %v", out)
		}
	}
	if in[0].Threat != "m1" {
		t.Fatal("input mutated")
	}
}

func TestJSON_MetadataAndResolvedNames(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	raw, err := JSON(reportDef(), sampleFindings(), "components: []\n")
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Metadata struct {
			GeneratedAt    string `json:"generatedAt"`
			ComponentCount int    `json:"componentCount"`
			ThreatCount    int    `json:"threatCount"`
		} `json:"metadata"`
		Definition string `json:"definition"`
		Threats    []struct {
			Threat                string `json:"threat"`
			AffectedComponentName string `json:"affectedComponentName"`
		} `json:"threats"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.GeneratedAt != "2025-03-01T12:00:00Z" {
		t.Fatalf("generatedAt = %q", doc.Metadata.GeneratedAt)
	}
	if doc.Metadata.ComponentCount != 2 || doc.Metadata.ThreatCount != 2 {
		t.Fatalf("metadata = %+v", doc.Metadata)
	}
	if doc.Threats[0].AffectedComponentName != "User DB" {
		t.Fatalf("threats = %+v", doc.Threats)
	}
}
