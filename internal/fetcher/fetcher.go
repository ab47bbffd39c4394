package fetcher

import (
	"context"
	"fmt"

	"quotedash/internal/quote"
)

// Source is the contract every quote provider implements.
type Source interface {
	// Name identifies the provider in logs, e.g. "yahoo".
	Name() string

	// Quote retrieves and normalizes the quote for one symbol.
	// Failures are reported as *FetchError.
	Quote(ctx context.Context, symbol string) (quote.Quote, error)
}

// Key returns a hierarchical identifier for a provider/symbol pair.
// Format: fetcher:{source}:{symbol}
func Key(source, symbol string) string {
	return fmt.Sprintf("fetcher:%s:%s", source, symbol)
}
