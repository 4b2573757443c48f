package llm

import (
	"context"
	"sync"
)

// FakeClient returns deterministic responses per agent for offline/testing.
// Responses are looked up by the agent name attached to the context via
// WithAgent; unmatched agents fall back to Default.
type FakeClient struct {
	mu       sync.Mutex
	tokenCap int
	calls    []string

	// Responses maps agent name to canned response.
	Responses map[string]string
	// Fail maps agent name to an error returned instead of a response.
	Fail map[string]error
	// Default is returned when no per-agent response matches.
	Default string
}

func NewFakeClient(cap int) *FakeClient {
	if cap <= 0 {
		cap = 4096
	}
	return &FakeClient{
		tokenCap: cap,
		Default:  "Score: 7.5\nReasoning: deterministic fake response.",
	}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }
func (f *FakeClient) CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text) / 4
}
func (f *FakeClient) TokenCapacity() int { return f.tokenCap }

func (f *FakeClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	agent := AgentFrom(ctx)
	f.mu.Lock()
	f.calls = append(f.calls, agent)
	f.mu.Unlock()

	if err, ok := f.Fail[agent]; ok {
		return "", err
	}
	if out, ok := f.Responses[agent]; ok {
		return out, nil
	}
	return f.Default, nil
}

// Calls returns the agent names recorded for each request, in order.
func (f *FakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns the total number of requests observed.
func (f *FakeClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
