package yahoo

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"quotedash/internal/fetcher"
	"quotedash/internal/quote"
)

const (
	// DefaultBaseURL is the public chart endpoint; no API key is required.
	DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

	DefaultInterval = "1d"
	DefaultRange    = "1d"
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL   string
	Interval  string
	Range     string
	UserAgent string
	Timeout   time.Duration
}

// Client fetches quotes from the Yahoo Finance chart API.
type Client struct {
	interval string
	rng      string
	client   *resty.Client
}

// NewClient creates a chart API client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Interval == "" {
		opts.Interval = DefaultInterval
	}
	if opts.Range == "" {
		opts.Range = DefaultRange
	}

	return &Client{
		interval: opts.Interval,
		rng:      opts.Range,
		client:   fetcher.NewHTTPClient(opts.BaseURL, opts.UserAgent, opts.Timeout),
	}
}

// Name implements fetcher.Source.
func (c *Client) Name() string {
	return "yahoo"
}

// Quote issues one chart request for symbol and normalizes the payload.
func (c *Client) Quote(ctx context.Context, symbol string) (quote.Quote, error) {
	symbol = quote.NormalizeSymbol(symbol)

	var result ChartResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": c.interval,
			"range":    c.rng,
		}).
		SetResult(&result).
		Get("/{symbol}")

	if err != nil {
		// A 2xx response that failed to decode is a payload problem, not a transport one.
		if resp != nil && resp.IsSuccess() && ctx.Err() == nil {
			return quote.Quote{}, fetcher.NewDataError(fmt.Sprintf("invalid data format for %s: %v", symbol, err))
		}
		return quote.Quote{}, fetcher.NewNetworkError(err)
	}

	if fe := fetcher.ClassifyHTTPError(resp.StatusCode(), resp.Status()); fe != nil {
		return quote.Quote{}, fe
	}

	return fromChart(symbol, &result)
}

// fromChart validates the envelope and applies the fallback chain.
func fromChart(symbol string, r *ChartResponse) (quote.Quote, error) {
	if r.Chart == nil || len(r.Chart.Result) == 0 {
		if r.Chart != nil && r.Chart.Error != nil && r.Chart.Error.Description != "" {
			return quote.Quote{}, fetcher.NewDataError(fmt.Sprintf("no data available for %s: %s", symbol, r.Chart.Error.Description))
		}
		return quote.Quote{}, fetcher.NewDataError(fmt.Sprintf("no data available for %s", symbol))
	}

	res := r.Chart.Result[0]
	meta := res.Meta
	if meta == nil {
		return quote.Quote{}, fetcher.NewDataError(fmt.Sprintf("invalid data format for %s", symbol))
	}
	s := res.series()

	return quote.Normalize(symbol, quote.Candidates{
		Price:         []*float64{meta.RegularMarketPrice, meta.PreviousClose},
		PreviousClose: []*float64{meta.PreviousClose},
		High:          []*float64{meta.RegularMarketDayHigh, quote.Last(s.High)},
		Low:           []*float64{meta.RegularMarketDayLow, quote.Last(s.Low)},
		Open:          []*float64{meta.RegularMarketOpen, quote.Last(s.Open)},
	}), nil
}
