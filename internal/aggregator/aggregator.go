package aggregator

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"quotedash/internal/fetcher"
	"quotedash/internal/logger"
	"quotedash/internal/quote"
)

// FallbackFunc returns a substitute quote for a symbol whose live fetch failed.
type FallbackFunc func(symbol string) (quote.Quote, bool)

// Aggregator resolves quotes for one or many symbols against a single source,
// substituting fallback records when the source fails.
type Aggregator struct {
	source   fetcher.Source
	fallback FallbackFunc
	log      zerolog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFallback replaces the built-in sample table.
// A nil function disables fallback entirely.
func WithFallback(fn FallbackFunc) Option {
	return func(a *Aggregator) {
		a.fallback = fn
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Aggregator) {
		a.log = l
	}
}

// New creates an Aggregator over source.
func New(source fetcher.Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:   source,
		fallback: quote.Sample,
		log:      *logger.L(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With().Str("source", source.Name()).Logger()
	return a
}

// Resolve fetches one symbol and tags how its outcome was produced.
// It never panics on source errors and never retries.
func (a *Aggregator) Resolve(ctx context.Context, symbol string) fetcher.Result {
	symbol = quote.NormalizeSymbol(symbol)
	if symbol == "" {
		return fetcher.Result{
			Status: fetcher.StatusFailed,
			Err:    &fetcher.SymbolError{Symbol: symbol, Cause: fetcher.ErrEmptySymbol},
		}
	}

	q, err := a.source.Quote(ctx, symbol)
	if err == nil {
		return fetcher.Result{Symbol: symbol, Quote: q, Status: fetcher.StatusFetched}
	}

	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		err = fetcher.NewUnknownError(err)
	}

	if a.fallback != nil {
		if sample, ok := a.fallback(symbol); ok {
			a.log.Warn().
				Str("symbol", symbol).
				Str("error_type", string(fetcher.TypeOf(err))).
				Err(err).
				Msg("quote source failed, using sample data")
			return fetcher.Result{Symbol: symbol, Quote: sample, Status: fetcher.StatusFallback, Err: err}
		}
	}

	return fetcher.Result{
		Symbol: symbol,
		Status: fetcher.StatusFailed,
		Err:    &fetcher.SymbolError{Symbol: symbol, Cause: err},
	}
}

// FetchOne returns the quote for symbol, live or fallback.
// The error identifies the symbol and wraps the underlying cause.
func (a *Aggregator) FetchOne(ctx context.Context, symbol string) (quote.Quote, error) {
	r := a.Resolve(ctx, symbol)
	if !r.OK() {
		return quote.Quote{}, r.Err
	}
	return r.Quote, nil
}

// ResolveMany resolves every symbol concurrently and waits for all of them
// to settle; one failure never cancels its siblings. Outcomes arrive in
// completion order. The error is non-nil only if a resolution panicked.
func (a *Aggregator) ResolveMany(ctx context.Context, symbols []string) ([]fetcher.Result, error) {
	if len(symbols) == 0 {
		return []fetcher.Result{}, nil
	}

	resultChan := make(chan fetcher.Result, len(symbols))

	var wg conc.WaitGroup
	for _, s := range symbols {
		wg.Go(func() {
			resultChan <- a.Resolve(ctx, s)
		})
	}

	recovered := wg.WaitAndRecover()
	close(resultChan)

	if recovered != nil {
		return nil, fmt.Errorf("batch fetch aborted: %w", recovered.AsError())
	}

	results := make([]fetcher.Result, 0, len(symbols))
	for r := range resultChan {
		results = append(results, r)
	}
	return results, nil
}

// FetchMany returns the usable quotes among symbols. Symbols that fail
// without a fallback are logged and omitted, as are quotes whose price is
// not strictly positive. Output order is not guaranteed.
func (a *Aggregator) FetchMany(ctx context.Context, symbols []string) ([]quote.Quote, error) {
	results, err := a.ResolveMany(ctx, symbols)
	if err != nil {
		return nil, err
	}

	quotes := make([]quote.Quote, 0, len(results))
	for _, r := range results {
		switch {
		case !r.OK():
			a.log.Error().
				Str("symbol", r.Symbol).
				Str("error_type", string(fetcher.TypeOf(r.Err))).
				Err(r.Err).
				Msg("dropping symbol from batch")
		case !r.Quote.Usable():
			a.log.Warn().
				Str("symbol", r.Symbol).
				Str("status", string(r.Status)).
				Float64("price", r.Quote.Price).
				Msg("dropping quote without a positive price")
		default:
			quotes = append(quotes, r.Quote)
		}
	}

	a.log.Debug().
		Int("requested", len(symbols)).
		Int("returned", len(quotes)).
		Msg("batch fetch complete")

	return quotes, nil
}
