package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidResponse marks a structurally empty or invalid model payload.
// It is fatal and is never silently treated as zero findings.
var ErrInvalidResponse = errors.New("analysis: empty or invalid model response")

// decodeResult validates the raw payload against the expected shape:
// a non-empty findings list where every entry carries the mandatory
// fields, a known severity, and a CVSS score inside [0, 10] when present.
func decodeResult(raw json.RawMessage) (*Result, error) {
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(res.Findings) == 0 {
		return nil, fmt.Errorf("%w: no findings", ErrInvalidResponse)
	}
	for i, f := range res.Findings {
		if f.Threat == "" || f.AffectedComponentID == "" || f.Mitigation == "" {
			return nil, fmt.Errorf("%w: finding %d is missing required fields", ErrInvalidResponse, i)
		}
		if _, err := ParseSeverity(string(f.Severity)); err != nil {
			return nil, fmt.Errorf("%w: finding %d: %v", ErrInvalidResponse, i, err)
		}
		if f.CVSS != nil && (*f.CVSS < 0 || *f.CVSS > 10) {
			return nil, fmt.Errorf("%w: finding %d: cvss %.1f out of range", ErrInvalidResponse, i, *f.CVSS)
		}
	}
	return &res, nil
}
