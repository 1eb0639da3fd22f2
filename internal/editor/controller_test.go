package editor

import (
	"strings"
	"sync"
	"testing"
	"time"

	"threatvisor/internal/graph"
)

const testDebounce = 25 * time.Millisecond

type recorder struct {
	mu      sync.Mutex
	texts   []string
	graphs  int
	errs    []error
	clicks  []string
	changed chan struct{}
}

func newRecorder() *recorder {
	return &recorder{changed: make(chan struct{}, 16)}
}

func (r *recorder) TextChanged(text string) {
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()
	r.changed <- struct{}{}
}

func (r *recorder) GraphReplaced(*graph.Model) {
	r.mu.Lock()
	r.graphs++
	r.mu.Unlock()
}

func (r *recorder) TextError(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *recorder) NodeClicked(id string) {
	r.mu.Lock()
	r.clicks = append(r.clicks, id)
	r.mu.Unlock()
}

func (r *recorder) lastText(t *testing.T) string {
	t.Helper()
	select {
	case <-r.changed:
	case <-time.After(time.Second):
		t.Fatal("no TextChanged within deadline")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.texts[len(r.texts)-1]
}

func (r *recorder) textCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.texts)
}

const editorDoc = `components:
  - id: db
    name: DB
    type: datastore
  - id: user
    name: User
    type: actor
data_flows:
  - from: user
    to: db
    label: query
`

func TestSetText_ProjectsGraph(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(editorDoc)
	m := c.Model()
	if len(m.Nodes) != 2 || len(m.Edges) != 1 {
		t.Fatalf("projection wrong: %d nodes, %d edges", len(m.Nodes), len(m.Edges))
	}
	if rec.graphs != 1 {
		t.Fatalf("GraphReplaced fired %d times", rec.graphs)
	}
	if c.Text() != editorDoc {
		t.Fatal("authoritative text not adopted")
	}
}

func TestSetText_BadInputKeepsGraph(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(editorDoc)
	before := c.Model()

	c.SetText("components: [unterminated")
	if len(rec.errs) != 1 {
		t.Fatalf("errors = %v", rec.errs)
	}
	after := c.Model()
	if len(after.Nodes) != len(before.Nodes) {
		t.Fatal("graph was touched by a rejected update")
	}
	if c.Text() != editorDoc {
		t.Fatal("authoritative text replaced by invalid input")
	}
}

func TestGraphEdit_PropagatesAfterDebounce(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(editorDoc)
	c.MoveNode("user", 300.6, 120.2)

	text := rec.lastText(t)
	if !strings.Contains(text, "position") {
		t.Fatalf("derived text missing position:\n%s", text)
	}
	if !strings.Contains(text, "x: 301") {
		t.Fatalf("position not rounded:\n%s", text)
	}
	if c.Text() != text {
		t.Fatal("authoritative text not updated after flush")
	}
}

func TestGraphEdits_CoalesceToOnePropagation(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(editorDoc)
	for i := 0; i < 10; i++ {
		c.MoveNode("user", float64(i*10), 0)
	}
	rec.lastText(t)
	time.Sleep(3 * testDebounce)
	if n := rec.textCount(); n != 1 {
		t.Fatalf("expected one coalesced propagation, got %d", n)
	}
}

func TestLoopFreedom_IdenticalDerivedTextStaysQuiet(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(editorDoc)
	c.MoveNode("user", 10, 10)
	settled := rec.lastText(t)

	// Feed the derived text straight back, then nudge the node to the
	// exact same place: the re-derived text is byte-identical and must
	// not be announced again.
	c.SetText(settled)
	c.MoveNode("user", 10, 10)
	time.Sleep(3 * testDebounce)
	if n := rec.textCount(); n != 1 {
		t.Fatalf("loop: %d propagations", n)
	}
}

func TestNewerTextCancelsPendingFlush(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(editorDoc)
	c.MoveNode("user", 999, 999)
	// Template swap arrives while the drag flush is pending.
	c.SetText(editorDoc)
	time.Sleep(3 * testDebounce)
	if n := rec.textCount(); n != 0 {
		t.Fatalf("stale drag propagated over newer text (%d events)", n)
	}
	if c.Text() != editorDoc {
		t.Fatal("newer text lost")
	}
}

func TestConnect_AssignsOrdinalEdgeIDs(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(editorDoc)
	c.Connect("user", "db", "audit")
	m := c.Model()
	if len(m.Edges) != 2 {
		t.Fatalf("edges = %d", len(m.Edges))
	}
	if m.Edges[1].ID != "e-user-db-1" {
		t.Fatalf("edge id = %s", m.Edges[1].ID)
	}
	text := rec.lastText(t)
	if !strings.Contains(text, "audit") {
		t.Fatalf("new flow missing:\n%s", text)
	}
}

func TestConnect_AfterRemoveEdgeKeepsIDsUnique(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(`components:
  - id: a
    name: A
    type: service
  - id: b
    name: B
    type: service
data_flows:
  - from: a
    to: b
    label: first
  - from: a
    to: b
    label: second
`)
	c.RemoveEdge("e-a-b-0")
	c.Connect("a", "b", "third")

	m := c.Model()
	if len(m.Edges) != 2 {
		t.Fatalf("edges = %+v", m.Edges)
	}
	seen := make(map[string]bool, len(m.Edges))
	for _, e := range m.Edges {
		if seen[e.ID] {
			t.Fatalf("duplicate edge id %s in %+v", e.ID, m.Edges)
		}
		seen[e.ID] = true
	}
	// The re-minted id must address the new flow, not a survivor.
	c.SetEdgeLabel("e-a-b-0", "third renamed")
	if got := c.Model().EdgeByID("e-a-b-0"); got == nil || got.Label != "third renamed" {
		t.Fatalf("edge not individually addressable: %+v", c.Model().Edges)
	}
	if got := c.Model().EdgeByID("e-a-b-1"); got == nil || got.Label != "second" {
		t.Fatalf("surviving edge disturbed: %+v", c.Model().Edges)
	}
}

func TestRemoveNode_DropsIncidentEdges(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(editorDoc)
	c.RemoveNode("db")
	m := c.Model()
	if len(m.Nodes) != 1 || len(m.Edges) != 0 {
		t.Fatalf("got %d nodes, %d edges", len(m.Nodes), len(m.Edges))
	}
}

func TestFlush_Forces(t *testing.T) {
	rec := newRecorder()
	c := New(rec, time.Hour)
	defer c.Close()

	c.SetText(editorDoc)
	c.RenameNode("user", "Customer")
	c.Flush()
	if rec.textCount() != 1 {
		t.Fatal("flush did not propagate")
	}
}

func TestClick_ScopedEmitter(t *testing.T) {
	rec := newRecorder()
	c := New(rec, testDebounce)
	defer c.Close()

	c.SetText(editorDoc)
	c.Click("user")
	c.Click("ghost")
	if len(rec.clicks) != 1 || rec.clicks[0] != "user" {
		t.Fatalf("clicks = %v", rec.clicks)
	}
}
