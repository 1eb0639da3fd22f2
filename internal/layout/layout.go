// Package layout assigns coordinates to diagram nodes that carry no
// explicit position. The engine is a black box behind a small contract so
// a heavier algorithm can replace the built-in one without touching the
// editor.
package layout

import "context"

// NodeSize is the layout input for one node.
type NodeSize struct {
	ID     string
	Width  float64
	Height float64
}

// EdgeRef is the layout input for one edge.
type EdgeRef struct {
	Source string
	Target string
}

// Position is a computed coordinate.
type Position struct {
	X float64
	Y float64
}

// Engine computes positions for every input node. Implementations must be
// pure: same inputs, same outputs.
type Engine interface {
	Layout(ctx context.Context, nodes []NodeSize, edges []EdgeRef) (map[string]Position, error)
}

// Result is the single outcome of an asynchronous layout run.
type Result struct {
	Positions map[string]Position
	Err       error
}

// Run executes the engine off the caller's goroutine and delivers exactly
// one Result. Cancel the context to abandon the run; the channel still
// receives the ctx error so the subscriber can tell abandonment from
// engine failure.
func Run(ctx context.Context, e Engine, nodes []NodeSize, edges []EdgeRef) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		if err := ctx.Err(); err != nil {
			ch <- Result{Err: err}
			return
		}
		pos, err := e.Layout(ctx, nodes, edges)
		ch <- Result{Positions: pos, Err: err}
	}()
	return ch
}
