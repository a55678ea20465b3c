package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Scripted is one queued answer of a MockProvider.
type Scripted struct {
	Content json.RawMessage
	Err     error
	// Delay blocks the call until it elapses or ctx is done.
	Delay time.Duration
}

// MockProvider replays scripted answers in order and records every request.
// When the script runs out it reports the provider as unavailable.
type MockProvider struct {
	mu       sync.Mutex
	script   []Scripted
	requests []Request
}

func NewMockProvider(script ...Scripted) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	if len(m.script) == 0 {
		m.mu.Unlock()
		return nil, &UnavailableError{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	m.mu.Unlock()

	if next.Delay > 0 {
		timer := time.NewTimer(next.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if next.Err != nil {
		return nil, next.Err
	}
	if err := CheckContent(req.Schema, next.Content); err != nil {
		return nil, err
	}
	return &Response{Content: next.Content, Model: "mock", StopReason: StopEnd}, nil
}

func (m *MockProvider) Model() string { return "mock" }

// Push queues more scripted answers.
func (m *MockProvider) Push(s ...Scripted) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, s...)
}

// Requests returns a copy of the recorded requests.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
