package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quotedash/internal/fetcher"
	"quotedash/internal/quote"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewStockFetcher(t *testing.T) {
	f := NewStockFetcher("test_api_key", "", "", 0)

	if f == nil {
		t.Fatal("NewStockFetcher() returned nil")
	}
	if f.apiKey != "test_api_key" {
		t.Errorf("apiKey = %q, want %q", f.apiKey, "test_api_key")
	}
	if f.client == nil {
		t.Error("client is nil")
	}
	if f.Name() != "alphavantage" {
		t.Errorf("Name() = %q, want alphavantage", f.Name())
	}
}

func TestStockFetcher_Quote_Success(t *testing.T) {
	server := jsonServer(t, `{
		"Global Quote": {
			"01. symbol": "AAPL",
			"02. open": "175.50",
			"03. high": "178.75",
			"04. low": "174.25",
			"05. price": "178.23",
			"06. volume": "50000000",
			"07. latest trading day": "2024-01-15",
			"08. previous close": "176.50",
			"09. change": "99.99",
			"10. change percent": "0.98%"
		}
	}`)

	q, err := NewStockFetcher("test_key", server.URL, "", 0).Quote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Quote() returned unexpected error: %v", err)
	}

	want := quote.Quote{
		Symbol:        "AAPL",
		Price:         178.23,
		Change:        quote.Round2(178.23 - 176.50),
		ChangePercent: quote.Round2((178.23 - 176.50) / 176.50 * 100),
		High:          178.75,
		Low:           174.25,
		Open:          175.50,
		PreviousClose: 176.50,
	}
	if q != want {
		t.Errorf("Quote() = %+v, want %+v", q, want)
	}
}

func TestStockFetcher_Quote_PriceOnly(t *testing.T) {
	server := jsonServer(t, `{"Global Quote": {"01. symbol": "TSLA", "05. price": "250.00"}}`)

	q, err := NewStockFetcher("test_key", server.URL, "", 0).Quote(context.Background(), "TSLA")
	if err != nil {
		t.Fatalf("Quote() returned unexpected error: %v", err)
	}

	want := quote.Quote{Symbol: "TSLA", Price: 250, High: 250, Low: 250, Open: 250, PreviousClose: 250}
	if q != want {
		t.Errorf("Quote() = %+v, want %+v", q, want)
	}
}

func TestStockFetcher_Quote_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing price", `{"Global Quote": {"01. symbol": "AAPL"}}`, "data error: price not found in response for AAPL"},
		{"invalid price", `{"Global Quote": {"05. price": "invalid_number"}}`, "failed to parse stock price for AAPL"},
		{"empty response", `{}`, "price not found in response for AAPL"},
		{"rate limit notice", `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, "alphavantage notice for AAPL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := jsonServer(t, tt.body)

			_, err := NewStockFetcher("test_key", server.URL, "", 0).Quote(context.Background(), "AAPL")
			if err == nil {
				t.Fatal("Quote() expected error, got nil")
			}
			if fetcher.TypeOf(err) != fetcher.ErrorTypeData {
				t.Errorf("TypeOf(err) = %q, want data", fetcher.TypeOf(err))
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestStockFetcher_Quote_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewStockFetcher("test_key", server.URL, "", 0).Quote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("Quote() expected error, got nil")
	}
	if fetcher.TypeOf(err) != fetcher.ErrorTypeNetwork {
		t.Errorf("TypeOf(err) = %q, want network", fetcher.TypeOf(err))
	}
}

func TestStockFetcher_Quote_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStockFetcher("test_key", server.URL, "", 0).Quote(ctx, "AAPL")
	if err == nil {
		t.Error("Quote() expected error for cancelled context, got nil")
	}
}

func TestStockFetcher_Quote_VerifyQueryParams(t *testing.T) {
	apiKey := "test_api_key_123"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != apiKey {
			t.Errorf("apikey = %q, want %q", got, apiKey)
		}
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("function = %q, want GLOBAL_QUOTE", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "GOOGL" {
			t.Errorf("symbol = %q, want GOOGL", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Global Quote": {"01. symbol": "GOOGL", "05. price": "142.56"}}`))
	}))
	defer server.Close()

	if _, err := NewStockFetcher(apiKey, server.URL, "", 0).Quote(context.Background(), "googl"); err != nil {
		t.Fatalf("Quote() returned unexpected error: %v", err)
	}
}
