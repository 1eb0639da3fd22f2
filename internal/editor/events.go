package editor

import "threatvisor/internal/graph"

// Events is the outbound surface of one editing session. It is owned by
// the session that created the controller and is torn down with it; there
// is no process-global registry of handlers.
type Events interface {
	// TextChanged delivers newly derived definition text after a quiet
	// period of graph edits. Never fired for text the session already
	// holds verbatim.
	TextChanged(text string)
	// GraphReplaced delivers a fresh projection after an accepted text
	// update.
	GraphReplaced(m *graph.Model)
	// TextError reports a rejected text update. The previous graph is
	// retained.
	TextError(err error)
	// NodeClicked reports diagram node activation.
	NodeClicked(id string)
}

// NopEvents discards everything. Useful for batch paths that only need
// the controller's reconciliation.
type NopEvents struct{}

func (NopEvents) TextChanged(string)         {}
func (NopEvents) GraphReplaced(*graph.Model) {}
func (NopEvents) TextError(error)            {}
func (NopEvents) NodeClicked(string)         {}
