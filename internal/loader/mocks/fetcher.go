package mocks

import (
	"context"
	"errors"
	"sync"
)

// MockFetcher is a function-based mock of the loader's Fetcher.
// It records every requested endpoint.
type MockFetcher struct {
	GetJSONFunc func(ctx context.Context, endpoint string, dest any) error

	mu        sync.Mutex
	endpoints []string
}

// GetJSON implements the Fetcher interface
func (m *MockFetcher) GetJSON(ctx context.Context, endpoint string, dest any) error {
	m.mu.Lock()
	m.endpoints = append(m.endpoints, endpoint)
	m.mu.Unlock()

	if m.GetJSONFunc != nil {
		return m.GetJSONFunc(ctx, endpoint, dest)
	}
	return errors.New("GetJSONFunc not implemented")
}

// Endpoints returns the endpoints requested so far, in call order.
func (m *MockFetcher) Endpoints() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.endpoints...)
}
