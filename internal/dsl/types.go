package dsl

// Kind classifies a component for rendering. The wire value is an open
// string so unfamiliar kinds survive a round trip untouched; Class folds
// everything unknown into KindOther.
type Kind string

const (
	KindActor     Kind = "actor"
	KindService   Kind = "service"
	KindDatastore Kind = "datastore"
	KindOther     Kind = "other"
)

// Class returns the closed rendering class for a kind.
func (k Kind) Class() Kind {
	switch k {
	case KindActor, KindService, KindDatastore:
		return k
	default:
		return KindOther
	}
}

// Position is an explicit diagram coordinate fixed by the user or a prior
// layout pass. Absent (nil) means the layout engine decides.
type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Component is a single box in the architecture. ID is the stable graph
// key and is never parsed for meaning.
type Component struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Kind     Kind      `yaml:"type" json:"type"`
	Position *Position `yaml:"position,omitempty" json:"position,omitempty"`
}

// DataFlow is a directed, labeled edge between two components. Self-loops
// are legal. Insertion order is preserved through serialization.
type DataFlow struct {
	From  string `yaml:"from" json:"from"`
	To    string `yaml:"to" json:"to"`
	Label string `yaml:"label" json:"label"`
}

// TrustBoundary groups components sharing a security context. A component
// belongs to at most one boundary; if a document lists it in several, the
// first boundary in document order wins.
type TrustBoundary struct {
	ID         string   `yaml:"id" json:"id"`
	Label      string   `yaml:"label" json:"label"`
	Components []string `yaml:"components" json:"components"`
}

// Definition is the canonical architecture model. The diagram is always a
// derived, disposable projection of it.
type Definition struct {
	Components      []Component     `yaml:"components" json:"components"`
	DataFlows       []DataFlow      `yaml:"data_flows" json:"data_flows"`
	TrustBoundaries []TrustBoundary `yaml:"trust_boundaries,omitempty" json:"trust_boundaries,omitempty"`
}

// ComponentByID returns the component with the given id, if any.
func (d *Definition) ComponentByID(id string) (Component, bool) {
	for _, c := range d.Components {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// BoundaryOf returns the first trust boundary in document order that lists
// the component, or the empty string.
func (d *Definition) BoundaryOf(componentID string) string {
	for _, b := range d.TrustBoundaries {
		for _, m := range b.Components {
			if m == componentID {
				return b.ID
			}
		}
	}
	return ""
}

// NameLookup builds an id -> display name map for report rendering.
func (d *Definition) NameLookup() map[string]string {
	names := make(map[string]string, len(d.Components))
	for _, c := range d.Components {
		names[c.ID] = c.Name
	}
	return names
}
