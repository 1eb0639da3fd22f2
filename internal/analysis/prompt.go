package analysis

import (
	"bytes"
	"fmt"
	"strings"
)

// promptField describes one output field the model must produce.
type promptField struct {
	name        string
	typ         string
	required    bool
	description string
}

var findingFields = []promptField{
	{"threat", "string", true, "A description of the potential threat."},
	{"affectedComponentId", "string", true, "The id of the component affected by the threat, exactly as declared in the architecture."},
	{"severity", "string", true, "One of Critical, High, Medium, Low."},
	{"mitigation", "string", true, "Concrete, actionable mitigation strategies for the threat."},
	{"cvss", "number", true, "Estimated CVSS 3.1 base score, 0.0 to 10.0."},
	{"cve", "string", false, "A representative CVE identifier for the vulnerability class, when one applies."},
	{"cwe", "string", false, "The relevant CWE identifier, e.g. CWE-89."},
}

// buildPrompt renders the section-structured analysis prompt. The
// definition text and the methodology ride in the input document, not in
// the prompt, so the prompt string is constant per methodology set and
// cache-friendly.
func buildPrompt() string {
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE",
		"You are a security architect conducting a contextualized threat analysis of the application architecture in the input. "+
			"Identify threats and mitigations that are specific to the technologies, data, and trust boundaries described. Avoid generic advice.")
	writeSection(&buf, "PROCESS", strings.Join([]string{
		"- Deconstruct the architecture: use component kinds, data flow labels, and trust boundaries to understand exposure; flows crossing from a lower-trust boundary into a higher-trust one deserve particular scrutiny.",
		"- Apply the methodology named in the input rigorously (for STRIDE, cover each category per component; for LINDDUN, focus on privacy; for OWASP lists, cross-reference the described stack; for PASTA/OCTAVE, prioritize by asset value; for MITRE ATT&CK, map adversary techniques).",
		"- Every threat MUST reference one affectedComponentId that exists in the architecture.",
	}, "\n"))
	writeSection(&buf, "OUTPUT", formatFields(findingFields))
	writeSection(&buf, "OUTPUT_FORMAT",
		`Return a single JSON object: {"threats": [ ...findings... ]}. JSON only, no prose, no markdown fences.`)
	return strings.TrimSpace(buf.String()) + "\n"
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	fmt.Fprintf(buf, "[%s]\n%s\n\n", title, body)
}

func formatFields(fields []promptField) string {
	var b strings.Builder
	for _, f := range fields {
		req := "optional"
		if f.required {
			req = "required"
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %s\n", f.name, f.typ, req, f.description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// promptInput is the JSON input document sent alongside the prompt.
type promptInput struct {
	ArchitectureDescription   string `json:"architecture_description"`
	ThreatModelingMethodology string `json:"threat_modeling_methodology"`
}
