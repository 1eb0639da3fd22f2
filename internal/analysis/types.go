package analysis

import "fmt"

// Severity is the ordered finding severity scale.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Rank orders severities for gating and sorting; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity resolves a severity token, case-sensitively: the wire
// format and the CLI flag both use the canonical capitalized names.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s), nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

// Finding is one identified threat. Findings are immutable once decoded
// from a validated response; downstream consumers only read them.
type Finding struct {
	Threat              string   `json:"threat"`
	AffectedComponentID string   `json:"affectedComponentId"`
	Severity            Severity `json:"severity"`
	Mitigation          string   `json:"mitigation"`
	CVSS                *float64 `json:"cvss,omitempty"`
	CVE                 string   `json:"cve,omitempty"`
	CWE                 string   `json:"cwe,omitempty"`
}

// Result is the validated payload of one analysis run.
type Result struct {
	Findings []Finding `json:"threats"`
}

// Request is an immutable analysis job. DefinitionText is the snapshot
// taken at submission; later edits to the live definition do not reach an
// in-flight request.
type Request struct {
	DefinitionText string
	Methodology    string
}

// Methodologies the UI and CLI offer. The orchestrator itself treats the
// token as opaque; this list only gates user-facing selection.
var Methodologies = []string{
	"STRIDE",
	"LINDDUN",
	"PASTA",
	"OWASP Top 10",
	"OWASP API Top 10",
	"MITRE ATT&CK",
	"OCTAVE",
}

// KnownMethodology reports whether the token is one of the offered set.
func KnownMethodology(s string) bool {
	for _, m := range Methodologies {
		if m == s {
			return true
		}
	}
	return false
}
