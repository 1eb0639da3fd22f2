package dsl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Parse reads an architecture definition from text. Two concrete syntaxes
// are accepted: strict bracketed JSON and block-structured YAML. JSON is
// attempted first; if the text is not valid JSON the whole document is
// re-read as YAML. A document is never interpreted as a mix of both.
func Parse(text []byte) (*Definition, error) {
	var probe any
	if err := json.Unmarshal(text, &probe); err == nil {
		return decodeDocument(probe, func(out *Definition) error {
			return json.Unmarshal(text, out)
		})
	}

	if err := yaml.Unmarshal(text, &probe); err != nil {
		return nil, &ParseError{Stage: StageSyntax, Err: err}
	}
	return decodeDocument(probe, func(out *Definition) error {
		return yaml.Unmarshal(text, out)
	})
}

// decodeDocument checks the parsed shape, then decodes the same text into
// the typed model. probe is the loosely-typed value used for the shape
// check; decode re-reads the source so field type mismatches surface.
func decodeDocument(probe any, decode func(*Definition) error) (*Definition, error) {
	if err := checkShape(probe); err != nil {
		return nil, err
	}
	var def Definition
	if err := decode(&def); err != nil {
		return nil, &ParseError{Stage: StageSyntax, Err: err}
	}
	return &def, nil
}

func checkShape(probe any) error {
	m, ok := asMapping(probe)
	if !ok {
		return &ParseError{Stage: StageShape, Err: fmt.Errorf("definition must be a mapping, got %T", probe)}
	}
	for _, key := range []string{"components", "data_flows"} {
		if _, ok := m[key]; !ok {
			return &ParseError{Stage: StageShape, Err: fmt.Errorf("missing required key %q", key)}
		}
	}
	return nil
}

func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// Marshal writes the canonical YAML form. Output is deterministic for a
// given definition: 2-space indent, insertion order kept, position omitted
// when absent, trust_boundaries omitted entirely when empty.
func (d *Definition) Marshal() ([]byte, error) {
	out := *d
	if len(out.TrustBoundaries) == 0 {
		out.TrustBoundaries = nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SortComponentsByID orders components by id. The serializer itself never
// resorts; this is the caller policy applied to diagram-driven edits so
// regenerated documents diff stably.
func SortComponentsByID(d *Definition) {
	sort.SliceStable(d.Components, func(i, j int) bool {
		return d.Components[i].ID < d.Components[j].ID
	})
}
