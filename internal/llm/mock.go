package llm

import (
	"context"
	"strings"
	"sync"
)

// MockProvider is a Provider for tests. It records prompts and returns a
// fixed response or error.
type MockProvider struct {
	mu         sync.Mutex
	response   string
	err        error
	lastPrompt string
	callCount  int

	// CompleteFunc overrides the fixed response when set.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
}

// NewMockProvider creates a mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// SetResponse sets the response content.
func (p *MockProvider) SetResponse(content string) {
	p.mu.Lock()
	p.response = content
	p.mu.Unlock()
}

// SetError sets an error to return.
func (p *MockProvider) SetError(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// LastPrompt returns the last prompt.
func (p *MockProvider) LastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPrompt
}

// CallCount returns the number of Complete calls made.
func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// Name implements Provider.
func (p *MockProvider) Name() string { return "mock" }

// Complete implements Provider.
func (p *MockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	p.callCount++
	p.lastPrompt = prompt
	fn, resp, err := p.CompleteFunc, p.response, p.err
	p.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}
