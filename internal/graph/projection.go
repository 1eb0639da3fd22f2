package graph

import (
	"fmt"
	"math"

	"threatvisor/internal/dsl"
)

// Placeholder grid constants. Boundary members pack two wide inside their
// container; free nodes pack four wide in a band below the containers.
const (
	memberGridCols = 2
	memberGridX    = 50
	memberGridY    = 50
	memberStepX    = 200
	memberStepY    = 120

	freeGridCols = 4
	freeGridX    = 100
	freeGridY    = 600
	freeStepX    = 250
	freeStepY    = 150
)

// FromDefinition projects a definition into a positioned diagram model.
// The projection is pure and deterministic: the same definition always
// yields the same model. Components carrying an explicit position keep it
// verbatim; the rest get grid placeholders and flip NeedsLayout on.
func FromDefinition(def *dsl.Definition) *Model {
	m := &Model{}

	for _, b := range def.TrustBoundaries {
		m.Groups = append(m.Groups, Group{ID: b.ID, Label: b.Label})
	}

	memberIndex := make(map[string]int, len(def.TrustBoundaries))
	freeIndex := 0
	for _, c := range def.Components {
		parent := def.BoundaryOf(c.ID)
		node := Node{
			ID:          c.ID,
			Label:       c.Name,
			Kind:        c.Kind,
			Width:       DefaultNodeWidth,
			Height:      DefaultNodeHeight,
			ParentGroup: parent,
		}
		switch {
		case c.Position != nil:
			node.Position = Position{X: c.Position.X, Y: c.Position.Y}
		case parent != "":
			i := memberIndex[parent]
			memberIndex[parent] = i + 1
			node.Position = Position{
				X: memberGridX + float64(i%memberGridCols)*memberStepX,
				Y: memberGridY + float64(i/memberGridCols)*memberStepY,
			}
			node.Placeholder = true
			m.NeedsLayout = true
		default:
			node.Position = Position{
				X: freeGridX + float64(freeIndex%freeGridCols)*freeStepX,
				Y: freeGridY + float64(freeIndex/freeGridCols)*freeStepY,
			}
			freeIndex++
			node.Placeholder = true
			m.NeedsLayout = true
		}
		m.Nodes = append(m.Nodes, node)
	}

	ordinal := make(map[[2]string]int, len(def.DataFlows))
	for _, f := range def.DataFlows {
		pair := [2]string{f.From, f.To}
		n := ordinal[pair]
		ordinal[pair] = n + 1
		m.Edges = append(m.Edges, Edge{
			ID:     EdgeID(f.From, f.To, n),
			Source: f.From,
			Target: f.To,
			Label:  f.Label,
		})
	}
	return m
}

// EdgeID derives the stable identity for the nth flow between a pair.
func EdgeID(from, to string, ordinal int) string {
	return fmt.Sprintf("e-%s-%s-%d", from, to, ordinal)
}

// ToDefinition reconstructs the canonical model from the live diagram.
// Boundary membership is read from current parent assignments, never from
// a cache. Positions are always captured, rounded to integer coordinates
// so sub-pixel drag noise does not churn the serialized text. Components
// come out sorted by id; that ordering normalization is the documented
// side effect of the graph round trip.
func (m *Model) ToDefinition() *dsl.Definition {
	def := &dsl.Definition{
		Components: make([]dsl.Component, 0, len(m.Nodes)),
		DataFlows:  make([]dsl.DataFlow, 0, len(m.Edges)),
	}

	members := make(map[string][]string, len(m.Groups))
	for _, n := range m.Nodes {
		def.Components = append(def.Components, dsl.Component{
			ID:   n.ID,
			Name: n.Label,
			Kind: n.Kind,
			Position: &dsl.Position{
				X: math.Round(n.Position.X),
				Y: math.Round(n.Position.Y),
			},
		})
		if n.ParentGroup != "" {
			members[n.ParentGroup] = append(members[n.ParentGroup], n.ID)
		}
	}
	dsl.SortComponentsByID(def)

	for _, e := range m.Edges {
		def.DataFlows = append(def.DataFlows, dsl.DataFlow{
			From:  e.Source,
			To:    e.Target,
			Label: e.Label,
		})
	}

	for _, g := range m.Groups {
		def.TrustBoundaries = append(def.TrustBoundaries, dsl.TrustBoundary{
			ID:         g.ID,
			Label:      g.Label,
			Components: members[g.ID],
		})
	}
	return def
}
