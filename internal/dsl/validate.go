package dsl

import "fmt"

// Validate checks referential integrity: every flow endpoint and boundary
// member must name a declared component, component ids must be unique, and
// boundary ids must not collide with component ids. It works on any
// Definition regardless of how it was built, including ones reconstructed
// from a live diagram.
func Validate(d *Definition) error {
	ids := make(map[string]struct{}, len(d.Components))
	for _, c := range d.Components {
		if _, dup := ids[c.ID]; dup {
			return &ValidationError{Kind: KindDuplicateID, Where: "components", MissingID: c.ID}
		}
		ids[c.ID] = struct{}{}
	}

	for i, f := range d.DataFlows {
		where := fmt.Sprintf("data_flows[%d]", i)
		if _, ok := ids[f.From]; !ok {
			return &ValidationError{Kind: KindDanglingReference, Where: where, MissingID: f.From}
		}
		if _, ok := ids[f.To]; !ok {
			return &ValidationError{Kind: KindDanglingReference, Where: where, MissingID: f.To}
		}
	}

	seenBoundaries := make(map[string]struct{}, len(d.TrustBoundaries))
	for _, b := range d.TrustBoundaries {
		if _, clash := ids[b.ID]; clash {
			return &ValidationError{Kind: KindDuplicateID, Where: "trust_boundaries", MissingID: b.ID}
		}
		if _, dup := seenBoundaries[b.ID]; dup {
			return &ValidationError{Kind: KindDuplicateID, Where: "trust_boundaries", MissingID: b.ID}
		}
		seenBoundaries[b.ID] = struct{}{}
		for _, m := range b.Components {
			if _, ok := ids[m]; !ok {
				return &ValidationError{Kind: KindDanglingReference, Where: "trust_boundaries/" + b.ID, MissingID: m}
			}
		}
	}
	return nil
}
