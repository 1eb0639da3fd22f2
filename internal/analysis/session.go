package analysis

import (
	"context"
	"sync"
)

// Outcome is the single eventual result of one analysis invocation.
type Outcome struct {
	Result *Result
	Err    error
}

// Session serializes analysis invocations for one caller. Starting a new
// analysis supersedes any in-flight one: the stale run is not aborted
// mid-flight (a fallback attempt is a bounded-latency operation) but its
// outcome is discarded so a slow earlier response can never land after a
// newer run and overwrite it.
type Session struct {
	orch *Orchestrator

	mu  sync.Mutex
	gen uint64
}

func NewSession(orch *Orchestrator) *Session {
	return &Session{orch: orch}
}

// Start launches an analysis and returns its outcome channel. The channel
// receives at most one value; it is closed without a value when the run
// was superseded or the session reset before completion.
func (s *Session) Start(ctx context.Context, req Request) <-chan Outcome {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := s.orch.Analyze(ctx, req)

		s.mu.Lock()
		stale := gen != s.gen
		s.mu.Unlock()
		if stale {
			return
		}
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

// Reset discards any in-flight run's eventual outcome, as when the user
// clears the form.
func (s *Session) Reset() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}
