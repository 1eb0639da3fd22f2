package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// FakeStep is one scripted turn of a Fake client.
type FakeStep struct {
	Response json.RawMessage
	Err      error
}

// Fake is a scripted client for tests. Steps are consumed in order; a
// drained script returns ErrInvalidJSON.
type Fake struct {
	ClientName string

	mu    sync.Mutex
	steps []FakeStep
	calls int
}

func NewFake(name string, steps ...FakeStep) *Fake {
	return &Fake{ClientName: name, steps: steps}
}

func (f *Fake) Name() string {
	if f.ClientName != "" {
		return f.ClientName
	}
	return "fake"
}

func (f *Fake) Close() error { return nil }

// Calls reports how many times GenerateJSON ran.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *Fake) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(f.steps) == 0 {
		return nil, ErrInvalidJSON
	}
	step := f.steps[0]
	f.steps = f.steps[1:]
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Response, nil
}
