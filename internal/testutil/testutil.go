package testutil

import (
	"context"
	"sync"

	"quotedash/internal/fetcher"
	"quotedash/internal/quote"
)

// MockSource is a mock implementation of the fetcher.Source interface for testing
type MockSource struct {
	NameValue string
	QuoteFunc func(ctx context.Context, symbol string) (quote.Quote, error)

	mu    sync.Mutex
	calls []string
}

// Name implements the fetcher.Source interface
func (m *MockSource) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

// Quote implements the fetcher.Source interface
func (m *MockSource) Quote(ctx context.Context, symbol string) (quote.Quote, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()

	if m.QuoteFunc != nil {
		return m.QuoteFunc(ctx, symbol)
	}
	return quote.Quote{Symbol: symbol}, nil
}

// Calls returns the symbols requested so far, in arrival order.
func (m *MockSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// NewMockSource answers from a fixed table; symbols missing from quotes
// fail with err, or with a network error when err is nil.
func NewMockSource(quotes map[string]quote.Quote, err error) *MockSource {
	return &MockSource{
		QuoteFunc: func(ctx context.Context, symbol string) (quote.Quote, error) {
			if q, ok := quotes[symbol]; ok {
				return q, nil
			}
			if err != nil {
				return quote.Quote{}, err
			}
			return quote.Quote{}, fetcher.NewNetworkError(context.DeadlineExceeded)
		},
	}
}

var _ fetcher.Source = (*MockSource)(nil)
