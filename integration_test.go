package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotedash/internal/aggregator"
	"quotedash/internal/fetcher"
	"quotedash/internal/watchlist"
	"quotedash/internal/yahoo"
)

// chartBody builds a minimal chart payload carrying only meta fields.
func chartBody(symbol string, price, prevClose float64) string {
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {
					"symbol": %q,
					"regularMarketPrice": %g,
					"previousClose": %g,
					"regularMarketDayHigh": %g,
					"regularMarketDayLow": %g,
					"regularMarketOpen": %g
				}
			}],
			"error": null
		}
	}`, symbol, price, prevClose, price+1, prevClose-1, prevClose)
}

// newChartServer serves the given prices by path symbol and 404s the rest.
func newChartServer(t *testing.T, prices map[string]float64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/")
		w.Header().Set("Content-Type", "application/json")

		price, ok := prices[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(chartBody(symbol, price, price-2)))
	}))
	t.Cleanup(server.Close)
	return server
}

// setupEnv points the CLI at server and a temporary watchlist.
func setupEnv(t *testing.T, serverURL, symbols string) string {
	t.Helper()
	home := t.TempDir()
	path := filepath.Join(home, "watchlist.json")

	t.Setenv("HOME", home)
	t.Setenv("QUOTE_PROVIDER", "yahoo")
	t.Setenv("YAHOO_BASE_URL", serverURL)
	t.Setenv("WATCHLIST_PATH", path)
	t.Setenv("DEFAULT_SYMBOLS", symbols)
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "disabled")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"quotedash"}, args...))
	return out.String(), err
}

func TestIntegration_WatchOnce(t *testing.T) {
	server := newChartServer(t, map[string]float64{"AAPL": 187.444, "MSFT": 410.1})
	setupEnv(t, server.URL, "AAPL,MSFT,ZZZZ")

	out, err := run(t, "watch", "--once", "--no-chart")
	require.NoError(t, err)

	assert.Contains(t, out, "Stock Price Dashboard")
	assert.Contains(t, out, "$187.44")
	assert.Contains(t, out, "$410.10")
	assert.NotContains(t, out, "ZZZZ")
	assert.NotContains(t, out, "Stock Price Comparison")
}

func TestIntegration_QuoteFallsBackToSamples(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	setupEnv(t, server.URL, "AAPL")

	out, err := run(t, "quote", "aapl", "ZZZZ")
	require.NoError(t, err)

	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "$185.59")
	assert.NotContains(t, out, "ZZZZ")
}

func TestIntegration_AllFailingShowsNoData(t *testing.T) {
	server := newChartServer(t, nil)
	setupEnv(t, server.URL, "ZZZZ,QQQQ")

	out, err := run(t, "watch", "--once")
	require.NoError(t, err)

	assert.Contains(t, out, "No stock data available. Please try again later.")
	assert.Contains(t, out, "Not updated yet")
}

func TestIntegration_AddListRemove(t *testing.T) {
	server := newChartServer(t, map[string]float64{"AAPL": 190, "NVDA": 120.5})
	path := setupEnv(t, server.URL, "AAPL")

	out, err := run(t, "add", "nvda")
	require.NoError(t, err)
	assert.Equal(t, "Added NVDA at $120.50\n", out)

	_, err = run(t, "add", "NVDA")
	require.Error(t, err)
	assert.ErrorIs(t, err, watchlist.ErrDuplicate)

	_, err = run(t, "add", "ZZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch data for ZZZZ")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "AAPL\nNVDA\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "NVDA")

	out, err = run(t, "remove", "aapl")
	require.NoError(t, err)
	assert.Equal(t, "Removed AAPL\n", out)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "NVDA\n", out)
}

func TestIntegration_ExportToStdout(t *testing.T) {
	server := newChartServer(t, map[string]float64{"AAPL": 190, "MSFT": 410})
	setupEnv(t, server.URL, "MSFT,AAPL")

	out, err := run(t, "export", "--out", "-", "--sort", "price", "--desc")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Symbol,Price,Change,Change %,High,Low,Open,Previous Close", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "MSFT,410.00,2.00,"))
	assert.True(t, strings.HasPrefix(lines[2], "AAPL,190.00,2.00,"))
}

func TestIntegration_ExportToFile(t *testing.T) {
	server := newChartServer(t, map[string]float64{"AAPL": 190})
	setupEnv(t, server.URL, "AAPL")
	out := filepath.Join(t.TempDir(), "quotes.csv")

	msg, err := run(t, "export", "-o", out)
	require.NoError(t, err)
	assert.Equal(t, "Exported 1 quotes to "+out+"\n", msg)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "AAPL,190.00")
}

func TestIntegration_InvalidConfiguration(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:0", "AAPL")
	t.Setenv("REFRESH_INTERVAL", "7s")

	_, err := run(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

// TestIntegration_ConcurrentFetching checks that a batch is fetched in parallel.
func TestIntegration_ConcurrentFetching(t *testing.T) {
	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}

		time.Sleep(100 * time.Millisecond)

		symbol := strings.TrimPrefix(r.URL.Path, "/")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(chartBody(symbol, 100, 99)))
	}))
	defer server.Close()

	agg := aggregator.New(yahoo.NewClient(yahoo.Options{BaseURL: server.URL}))
	symbols := []string{"A", "B", "C", "D", "E"}

	start := time.Now()
	quotes, err := agg.FetchMany(context.Background(), symbols)
	duration := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, quotes, len(symbols))
	assert.Greater(t, peak.Load(), int32(1))

	// Sequential fetching would take at least 500ms.
	if duration > 300*time.Millisecond {
		t.Errorf("batch likely ran sequentially. Duration: %v (expected < 300ms)", duration)
	}
}

// TestIntegration_ContextTimeout checks that a slow provider is bounded by
// the caller's deadline and that the fallback table still applies.
func TestIntegration_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	agg := aggregator.New(yahoo.NewClient(yahoo.Options{BaseURL: server.URL}))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	results, err := agg.ResolveMany(ctx, []string{"AAPL", "ZZZZ"})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)

	require.Len(t, results, 2)
	bySymbol := map[string]fetcher.Result{}
	for _, r := range results {
		bySymbol[r.Symbol] = r
	}

	assert.Equal(t, fetcher.StatusFallback, bySymbol["AAPL"].Status)
	assert.Equal(t, 185.59, bySymbol["AAPL"].Quote.Price)

	assert.Equal(t, fetcher.StatusFailed, bySymbol["ZZZZ"].Status)
	assert.Equal(t, fetcher.ErrorTypeNetwork, fetcher.TypeOf(bySymbol["ZZZZ"].Err))
}
