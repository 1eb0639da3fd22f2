package layout

import "context"

// Grid is the built-in engine: nodes are ranked into layers by longest
// path from the sources, ordered within a layer by first appearance, and
// spaced on a fixed pitch. It optimizes nothing beyond readability but is
// deterministic and cycle-safe.
type Grid struct {
	// Pitch between layer rows and between nodes in a row. Zero values
	// fall back to defaults sized for the standard node box.
	StepX float64
	StepY float64
}

const (
	defaultStepX = 240
	defaultStepY = 140
)

func (g Grid) Layout(ctx context.Context, nodes []NodeSize, edges []EdgeRef) (map[string]Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stepX, stepY := g.StepX, g.StepY
	if stepX <= 0 {
		stepX = defaultStepX
	}
	if stepY <= 0 {
		stepY = defaultStepY
	}

	known := make(map[string]int, len(nodes))
	for i, n := range nodes {
		known[n.ID] = i
	}

	// Longest-path layering. Self-loops and edges to unknown nodes are
	// ignored; cycles are broken by refusing to raise a node past the
	// node count.
	layer := make(map[string]int, len(nodes))
	for changed, pass := true, 0; changed && pass <= len(nodes); pass++ {
		changed = false
		for _, e := range edges {
			if e.Source == e.Target {
				continue
			}
			if _, ok := known[e.Source]; !ok {
				continue
			}
			if _, ok := known[e.Target]; !ok {
				continue
			}
			if want := layer[e.Source] + 1; want > layer[e.Target] && want < len(nodes) {
				layer[e.Target] = want
				changed = true
			}
		}
	}

	out := make(map[string]Position, len(nodes))
	nextCol := make(map[int]int)
	for _, n := range nodes {
		l := layer[n.ID]
		col := nextCol[l]
		nextCol[l] = col + 1
		out[n.ID] = Position{
			X: float64(col) * stepX,
			Y: float64(l) * stepY,
		}
	}
	return out, nil
}
