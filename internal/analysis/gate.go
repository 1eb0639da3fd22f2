package analysis

// AtOrAbove returns the findings whose severity meets or exceeds min,
// preserving discovery order. The CLI turns a non-empty answer into a
// failing exit code.
func AtOrAbove(findings []Finding, min Severity) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Severity.Rank() >= min.Rank() {
			out = append(out, f)
		}
	}
	return out
}
