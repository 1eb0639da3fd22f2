package layout

import (
	"context"
	"testing"
	"time"

	"threatvisor/internal/dsl"
	"threatvisor/internal/graph"
)

func TestGrid_LayersByLongestPath(t *testing.T) {
	nodes := []NodeSize{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []EdgeRef{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "a", Target: "c"}}
	pos, err := Grid{}.Layout(context.Background(), nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	if pos["a"].Y >= pos["b"].Y || pos["b"].Y >= pos["c"].Y {
		t.Fatalf("layering wrong: %+v", pos)
	}
}

func TestGrid_DeterministicAndCycleSafe(t *testing.T) {
	nodes := []NodeSize{{ID: "a"}, {ID: "b"}}
	edges := []EdgeRef{{Source: "a", Target: "b"}, {Source: "b", Target: "a"}, {Source: "a", Target: "a"}}
	first, err := Grid{}.Layout(context.Background(), nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Grid{}.Layout(context.Background(), nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	for id := range first {
		if first[id] != second[id] {
			t.Fatalf("nondeterministic position for %s", id)
		}
	}
}

func TestRun_DeliversSingleResult(t *testing.T) {
	ch := Run(context.Background(), Grid{}, []NodeSize{{ID: "a"}}, nil)
	select {
	case res := <-ch:
		if res.Err != nil {
			t.Fatal(res.Err)
		}
		if _, ok := res.Positions["a"]; !ok {
			t.Fatalf("missing position: %+v", res.Positions)
		}
	case <-time.After(time.Second):
		t.Fatal("layout did not complete")
	}
	if _, open := <-ch; open {
		t.Fatal("channel delivered a second result")
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := <-Run(ctx, Grid{}, []NodeSize{{ID: "a"}}, nil)
	if res.Err == nil {
		t.Fatal("expected context error")
	}
}

func TestMerge_OnlyPlaceholdersMove(t *testing.T) {
	def := &dsl.Definition{
		Components: []dsl.Component{
			{ID: "fixed", Name: "Fixed", Kind: dsl.KindService, Position: &dsl.Position{X: 7, Y: 8}},
			{ID: "loose", Name: "Loose", Kind: dsl.KindService},
		},
		DataFlows: []dsl.DataFlow{{From: "fixed", To: "loose", Label: "x"}},
	}
	m := graph.FromDefinition(def)
	if !m.NeedsLayout {
		t.Fatal("expected NeedsLayout")
	}
	nodes, edges := Inputs(m)
	pos, err := Grid{}.Layout(context.Background(), nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	Merge(m, pos)

	if got := m.NodeByID("fixed").Position; got != (graph.Position{X: 7, Y: 8}) {
		t.Fatalf("fixed node moved to %+v", got)
	}
	if m.NodeByID("loose").Placeholder {
		t.Fatal("loose node still placeholder")
	}
	if m.NeedsLayout {
		t.Fatal("NeedsLayout not cleared")
	}
}
