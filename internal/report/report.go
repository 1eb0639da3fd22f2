// Package report turns a definition plus analysis findings into
// exportable documents. Everything here is a pure transformation; sorting
// and escaping never mutate the findings they are given.
package report

import (
	"fmt"
	"sort"
	"strings"

	"threatvisor/internal/analysis"
	"threatvisor/internal/dsl"
)

// ExportError reports a per-artifact assembly failure. Handlers keep the
// artifact name so a degraded export names what is missing.
type ExportError struct {
	Artifact string
	Err      error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Artifact, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Header is the fixed findings-table column order.
var Header = []string{"Severity", "Component", "Threat", "Mitigation", "CVSS", "CVE", "CWE"}

// SortBySeverity returns a copy ordered Critical first, stable for equal
// severities so discovery order is kept. Display-layer concern only.
func SortBySeverity(findings []analysis.Finding) []analysis.Finding {
	out := append([]analysis.Finding(nil), findings...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

// Rows flattens findings into the seven-column table used by tabular
// renderers. Component ids resolve to display names through the
// definition; an id with no component prints as-is.
func Rows(def *dsl.Definition, findings []analysis.Finding) [][]string {
	names := def.NameLookup()
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{
			string(f.Severity),
			resolveName(names, f.AffectedComponentID),
			f.Threat,
			f.Mitigation,
			formatCVSS(f.CVSS),
			orNA(f.CVE),
			orNA(f.CWE),
		})
	}
	return rows
}

// Markdown assembles the full report document: the definition text in a
// fenced block, the optional diagram fragment, and the findings table.
func Markdown(def *dsl.Definition, findings []analysis.Finding, definitionText, diagram string) string {
	var b strings.Builder
	b.WriteString("# Threat Model Report\n\n")

	b.WriteString("## Architecture Definition\n\n")
	b.WriteString("```yaml\n")
	b.WriteString(strings.TrimRight(definitionText, "\n"))
	b.WriteString("\n```\n\n")

	if diagram != "" {
		b.WriteString("## Diagram\n\n")
		b.WriteString("```mermaid\n")
		b.WriteString(strings.TrimRight(diagram, "\n"))
		b.WriteString("\n```\n\n")
	}

	b.WriteString("## Identified Threats\n\n")
	b.WriteString("| " + strings.Join(Header, " | ") + " |\n")
	b.WriteString("|----------|-----------|--------|------------|------|-----|-----|\n")
	for _, row := range Rows(def, findings) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = escapeCell(cell)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// escapeCell keeps free-text prose from breaking the table: pipes are
// escaped and embedded newlines become explicit line breaks.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "<br />")
	return s
}

func resolveName(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func formatCVSS(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
