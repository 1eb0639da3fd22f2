package layout

import "threatvisor/internal/graph"

// Inputs extracts the engine inputs from a diagram model.
func Inputs(m *graph.Model) ([]NodeSize, []EdgeRef) {
	nodes := make([]NodeSize, 0, len(m.Nodes))
	for _, n := range m.Nodes {
		nodes = append(nodes, NodeSize{ID: n.ID, Width: n.Width, Height: n.Height})
	}
	edges := make([]EdgeRef, 0, len(m.Edges))
	for _, e := range m.Edges {
		edges = append(edges, EdgeRef{Source: e.Source, Target: e.Target})
	}
	return nodes, edges
}

// Merge applies computed positions to the model. Only placeholder nodes
// move; a coordinate the user or the model fixed is never overwritten.
// Clears NeedsLayout when no placeholder remains unresolved.
func Merge(m *graph.Model, positions map[string]Position) {
	remaining := false
	for i := range m.Nodes {
		n := &m.Nodes[i]
		if !n.Placeholder {
			continue
		}
		p, ok := positions[n.ID]
		if !ok {
			remaining = true
			continue
		}
		n.Position = graph.Position{X: p.X, Y: p.Y}
		n.Placeholder = false
	}
	m.NeedsLayout = remaining
}
