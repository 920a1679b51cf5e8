package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/godilite/saneamento-dashboard/internal/api"
)

// MockSearcher is a mock implementation of the Searcher interface that
// records every query it receives.
type MockSearcher struct {
	SearchMunicipiosFunc func(ctx context.Context, q string) ([]api.Municipio, error)

	mu      sync.Mutex
	queries []string
}

// SearchMunicipios implements the Searcher interface
func (m *MockSearcher) SearchMunicipios(ctx context.Context, q string) ([]api.Municipio, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()

	if m.SearchMunicipiosFunc != nil {
		return m.SearchMunicipiosFunc(ctx, q)
	}
	return nil, errors.New("SearchMunicipiosFunc not implemented")
}

// Queries returns the queries received so far, in call order.
func (m *MockSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}
