package fetcher

import "quotedash/internal/quote"

// Status tags how a symbol's outcome was produced.
type Status string

const (
	StatusFetched  Status = "fetched"
	StatusFallback Status = "fallback"
	StatusFailed   Status = "failed"
)

// Result represents the outcome of resolving one symbol.
// Quote is valid unless Status is StatusFailed, in which case Err is set.
// For StatusFallback, Err keeps the live failure that triggered the substitution.
type Result struct {
	Symbol string
	Quote  quote.Quote
	Status Status
	Err    error
}

// OK reports whether the result carries a quote.
func (r Result) OK() bool {
	return r.Status != StatusFailed
}
