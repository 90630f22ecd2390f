// Package mocks provides in-memory implementations of the port interfaces
// for tests, with call tracking and error injection.
package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

// Responder produces the answer for one upstream call.
type Responder func(req ports.Request) (json.RawMessage, error)

// MockAPIClient implements ports.APIClient. Answers are looked up by
// "METHOD path"; unknown routes fail so tests notice unexpected calls.
type MockAPIClient struct {
	mu     sync.Mutex
	routes map[string]Responder

	// Calls records every request in arrival order.
	Calls []ports.Request

	// Err, when set, fails every call.
	Err error
}

var _ ports.APIClient = (*MockAPIClient)(nil)

func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{routes: make(map[string]Responder)}
}

// On registers a responder for method and path.
func (m *MockAPIClient) On(method, path string, fn Responder) *MockAPIClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[method+" "+path] = fn
	return m
}

// Reply registers a fixed JSON body for method and path.
func (m *MockAPIClient) Reply(method, path, body string) *MockAPIClient {
	return m.On(method, path, func(ports.Request) (json.RawMessage, error) {
		return json.RawMessage(body), nil
	})
}

// Fail registers an error for method and path.
func (m *MockAPIClient) Fail(method, path string, err error) *MockAPIClient {
	return m.On(method, path, func(ports.Request) (json.RawMessage, error) {
		return nil, err
	})
}

func (m *MockAPIClient) Do(ctx context.Context, req ports.Request) (json.RawMessage, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	fn, ok := m.routes[req.Method+" "+req.Path]
	injected := m.Err
	m.mu.Unlock()

	if injected != nil {
		return nil, injected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("mock: no route for %s %s", req.Method, req.Path)
	}
	return fn(req)
}

// CallsTo returns the recorded requests for method and path.
func (m *MockAPIClient) CallsTo(method, path string) []ports.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []ports.Request
	for _, c := range m.Calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockAPIClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
