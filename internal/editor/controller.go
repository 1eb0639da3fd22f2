package editor

import (
	"sync"
	"time"

	"threatvisor/internal/dsl"
	"threatvisor/internal/graph"
	"threatvisor/internal/layout"
)

// DefaultDebounce is the quiet period between the last graph edit and the
// derived text propagation.
const DefaultDebounce = 500 * time.Millisecond

// Controller reconciles the two coupled views of one architecture: the
// authoritative definition text and the live diagram model. Exactly one
// controller owns a text/graph pair; all methods are safe for concurrent
// use but callers are expected to funnel one session through it.
//
// Text updates apply immediately (parse, validate, re-project). Graph
// edits apply to the model synchronously and propagate back to text only
// after a debounce window, and only when the derived text differs from
// the text currently held, which is what keeps the two directions from
// feeding each other.
type Controller struct {
	mu       sync.Mutex
	text     string
	model    *graph.Model
	events   Events
	debounce time.Duration

	timer  *time.Timer
	gen    uint64
	closed bool
}

// New creates a controller with no content. events must not be nil;
// debounce <= 0 selects DefaultDebounce.
func New(events Events, debounce time.Duration) *Controller {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{
		events:   events,
		debounce: debounce,
		model:    &graph.Model{},
	}
}

// Text returns the current authoritative definition text.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Model returns a snapshot of the live diagram model.
func (c *Controller) Model() *graph.Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneModel(c.model)
}

// SetText applies an external text update (template load, direct edit).
// On success the graph is replaced with a fresh projection; on failure
// the last valid graph is retained and the error is surfaced through the
// event sink. Either way a pending graph-to-text flush is cancelled: the
// arriving text reflects a newer external decision than any in-progress
// drag.
func (c *Controller) SetText(text string) {
	c.mu.Lock()
	c.cancelFlushLocked()

	def, err := dsl.Parse([]byte(text))
	if err == nil {
		err = dsl.Validate(def)
	}
	if err != nil {
		c.mu.Unlock()
		c.events.TextError(err)
		return
	}

	c.text = text
	c.model = graph.FromDefinition(def)
	snapshot := cloneModel(c.model)
	c.mu.Unlock()

	c.events.GraphReplaced(snapshot)
}

// MoveNode updates a node position from a drag. The coordinate is taken
// as-is; rounding happens when the model is read back out of the graph.
func (c *Controller) MoveNode(id string, x, y float64) {
	c.mutate(func(m *graph.Model) bool {
		n := m.NodeByID(id)
		if n == nil {
			return false
		}
		n.Position = graph.Position{X: x, Y: y}
		n.Placeholder = false
		return true
	})
}

// Connect adds a data flow between two existing nodes.
func (c *Controller) Connect(source, target, label string) {
	if label == "" {
		label = "New flow"
	}
	c.mutate(func(m *graph.Model) bool {
		if m.NodeByID(source) == nil || m.NodeByID(target) == nil {
			return false
		}
		// Scan for a free ordinal instead of counting same-pair edges:
		// after a removal the count can name an id a surviving edge
		// still holds.
		ordinal := 0
		for m.EdgeByID(graph.EdgeID(source, target, ordinal)) != nil {
			ordinal++
		}
		m.Edges = append(m.Edges, graph.Edge{
			ID:     graph.EdgeID(source, target, ordinal),
			Source: source,
			Target: target,
			Label:  label,
		})
		return true
	})
}

// RenameNode changes a node's display label.
func (c *Controller) RenameNode(id, name string) {
	c.mutate(func(m *graph.Model) bool {
		n := m.NodeByID(id)
		if n == nil || n.Label == name {
			return false
		}
		n.Label = name
		return true
	})
}

// SetNodeBoundary moves a node into a group, or out of all groups when
// groupID is empty.
func (c *Controller) SetNodeBoundary(id, groupID string) {
	c.mutate(func(m *graph.Model) bool {
		n := m.NodeByID(id)
		if n == nil || n.ParentGroup == groupID {
			return false
		}
		if groupID != "" {
			found := false
			for _, g := range m.Groups {
				if g.ID == groupID {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		n.ParentGroup = groupID
		return true
	})
}

// SetEdgeLabel relabels a data flow.
func (c *Controller) SetEdgeLabel(id, label string) {
	c.mutate(func(m *graph.Model) bool {
		e := m.EdgeByID(id)
		if e == nil || e.Label == label {
			return false
		}
		e.Label = label
		return true
	})
}

// RemoveNode deletes a node and every flow touching it.
func (c *Controller) RemoveNode(id string) {
	c.mutate(func(m *graph.Model) bool {
		kept := m.Nodes[:0]
		removed := false
		for _, n := range m.Nodes {
			if n.ID == id {
				removed = true
				continue
			}
			kept = append(kept, n)
		}
		if !removed {
			return false
		}
		m.Nodes = kept
		edges := m.Edges[:0]
		for _, e := range m.Edges {
			if e.Source == id || e.Target == id {
				continue
			}
			edges = append(edges, e)
		}
		m.Edges = edges
		return true
	})
}

// RemoveEdge deletes a data flow.
func (c *Controller) RemoveEdge(id string) {
	c.mutate(func(m *graph.Model) bool {
		kept := m.Edges[:0]
		removed := false
		for _, e := range m.Edges {
			if e.ID == id {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		if !removed {
			return false
		}
		m.Edges = kept
		return true
	})
}

// ApplyLayout merges computed positions into placeholder nodes and arms
// the flush so the settled coordinates reach the text.
func (c *Controller) ApplyLayout(positions map[string]layout.Position) {
	c.mutate(func(m *graph.Model) bool {
		if len(positions) == 0 {
			return false
		}
		layout.Merge(m, positions)
		return true
	})
}

// Click reports node activation through the session-scoped emitter.
func (c *Controller) Click(id string) {
	c.mu.Lock()
	known := c.model.NodeByID(id) != nil
	c.mu.Unlock()
	if known {
		c.events.NodeClicked(id)
	}
}

// Flush forces a pending graph-to-text propagation immediately.
func (c *Controller) Flush() {
	c.mu.Lock()
	if c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.timer.Stop()
	c.timer = nil
	gen := c.gen
	c.mu.Unlock()
	c.flush(gen)
}

// Close cancels any pending propagation. The controller must not be used
// afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancelFlushLocked()
}

// mutate runs a model edit under the lock and arms the debounce when the
// edit reports a change.
func (c *Controller) mutate(edit func(*graph.Model) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if !edit(c.model) {
		return
	}
	c.armFlushLocked()
}

func (c *Controller) armFlushLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.gen
	c.timer = time.AfterFunc(c.debounce, func() { c.flush(gen) })
}

// cancelFlushLocked invalidates any pending flush; a timer callback that
// already fired will see the bumped generation and drop its work.
func (c *Controller) cancelFlushLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Controller) flush(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil

	def := c.model.ToDefinition()
	out, err := def.Marshal()
	if err != nil {
		c.mu.Unlock()
		c.events.TextError(err)
		return
	}
	derived := string(out)
	if derived == c.text {
		// Byte-identical after projection: nothing to announce.
		c.mu.Unlock()
		return
	}
	c.text = derived
	c.mu.Unlock()

	c.events.TextChanged(derived)
}

func cloneModel(m *graph.Model) *graph.Model {
	out := &graph.Model{NeedsLayout: m.NeedsLayout}
	out.Nodes = append([]graph.Node(nil), m.Nodes...)
	out.Edges = append([]graph.Edge(nil), m.Edges...)
	out.Groups = append([]graph.Group(nil), m.Groups...)
	return out
}
