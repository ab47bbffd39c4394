package alphavantage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resty.dev/v3"

	"quotedash/internal/fetcher"
	"quotedash/internal/quote"
)

// DefaultBaseURL is the production query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// GlobalQuoteResponse represents the AlphaVantage API response for stock quotes
type GlobalQuoteResponse struct {
	GlobalQuote *struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`

	// Note and Information carry the throttling/notice messages the API
	// returns with a 200 status instead of a quote.
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

// StockFetcher fetches stock quotes from AlphaVantage
type StockFetcher struct {
	apiKey string
	client *resty.Client
}

// NewStockFetcher creates a new stock quote fetcher
func NewStockFetcher(apiKey, baseURL, userAgent string, timeout time.Duration) *StockFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &StockFetcher{
		apiKey: apiKey,
		client: fetcher.NewHTTPClient(baseURL, userAgent, timeout),
	}
}

// Name implements fetcher.Source
func (f *StockFetcher) Name() string {
	return "alphavantage"
}

// Quote retrieves the current quote for ticker
func (f *StockFetcher) Quote(ctx context.Context, ticker string) (quote.Quote, error) {
	ticker = quote.NormalizeSymbol(ticker)

	var result GlobalQuoteResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":   f.apiKey,
			"function": "GLOBAL_QUOTE",
			"symbol":   ticker,
		}).
		SetResult(&result).
		Get("")

	if err != nil {
		return quote.Quote{}, fetcher.NewNetworkError(err)
	}

	if fe := fetcher.ClassifyHTTPError(resp.StatusCode(), resp.Status()); fe != nil {
		return quote.Quote{}, fe
	}

	if notice := strings.TrimSpace(result.Note + " " + result.Information); notice != "" {
		return quote.Quote{}, fetcher.NewDataError(fmt.Sprintf("alphavantage notice for %s: %s", ticker, notice))
	}

	gq := result.GlobalQuote
	if gq == nil || gq.Price == "" {
		return quote.Quote{}, fetcher.NewDataError(fmt.Sprintf("price not found in response for %s", ticker))
	}

	price, err := strconv.ParseFloat(gq.Price, 64)
	if err != nil {
		return quote.Quote{}, fetcher.NewDataError(fmt.Sprintf("failed to parse stock price for %s: %v", ticker, err))
	}

	return quote.Normalize(ticker, quote.Candidates{
		Price:         []*float64{&price, parse(gq.PreviousClose)},
		PreviousClose: []*float64{parse(gq.PreviousClose)},
		High:          []*float64{parse(gq.High)},
		Low:           []*float64{parse(gq.Low)},
		Open:          []*float64{parse(gq.Open)},
	}), nil
}

// parse returns nil for blank or malformed numbers so the field falls back.
func parse(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
