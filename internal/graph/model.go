package graph

import "threatvisor/internal/dsl"

// Default node box used until a renderer measures the real label.
const (
	DefaultNodeWidth  = 180
	DefaultNodeHeight = 60
)

// Position is a diagram coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one rendered component. ParentGroup is the containing trust
// boundary id, or empty for a free node. Placeholder reports whether the
// position was grid-assigned rather than carried by the model; only
// placeholder positions may be overwritten by a layout pass.
type Node struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Kind        dsl.Kind `json:"kind"`
	Position    Position `json:"position"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	ParentGroup string   `json:"parentGroup,omitempty"`
	Placeholder bool     `json:"placeholder,omitempty"`
}

// Edge is one rendered data flow. The ID encodes (source, target, ordinal
// among flows sharing that pair) so parallel flows stay individually
// addressable across re-projection.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Group is a trust boundary rendered as a container.
type Group struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Model is the projected diagram. NeedsLayout is set when any node carries
// a placeholder position, signalling that the layout engine should run
// before first paint.
type Model struct {
	Nodes       []Node  `json:"nodes"`
	Edges       []Edge  `json:"edges"`
	Groups      []Group `json:"groups"`
	NeedsLayout bool    `json:"needsLayout"`
}

// NodeByID returns a pointer into Nodes, or nil.
func (m *Model) NodeByID(id string) *Node {
	for i := range m.Nodes {
		if m.Nodes[i].ID == id {
			return &m.Nodes[i]
		}
	}
	return nil
}

// EdgeByID returns a pointer into Edges, or nil.
func (m *Model) EdgeByID(id string) *Edge {
	for i := range m.Edges {
		if m.Edges[i].ID == id {
			return &m.Edges[i]
		}
	}
	return nil
}
