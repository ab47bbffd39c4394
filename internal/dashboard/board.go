package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"quotedash/internal/logger"
	"quotedash/internal/quote"
	"quotedash/internal/watchlist"
)

// NoDataMessage is shown when a refresh yields zero usable quotes.
const NoDataMessage = "No stock data available. Please try again later."

// Fetcher is the aggregator surface the board consumes.
type Fetcher interface {
	FetchOne(ctx context.Context, symbol string) (quote.Quote, error)
	FetchMany(ctx context.Context, symbols []string) ([]quote.Quote, error)
}

// Symbols is the persisted symbol set the board displays.
type Symbols interface {
	Symbols() []string
	Contains(symbol string) bool
	Add(symbol string) error
	Remove(symbol string) error
	Save() error
}

// Board is the dashboard's presentation state. It is not safe for
// concurrent use; Run services refreshes from a single goroutine.
type Board struct {
	fetcher Fetcher
	symbols Symbols
	log     zerolog.Logger
	now     func() time.Time

	quotes    []quote.Quote
	sort      sortState
	showChart bool
	updatedAt time.Time
	message   string
}

// Option configures a Board.
type Option func(*Board)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithChart sets whether Render includes the chart.
func WithChart(show bool) Option {
	return func(b *Board) { b.showChart = show }
}

// WithSort sets the initial sort column and direction.
func WithSort(field SortField, dir Direction) Option {
	return func(b *Board) { b.sort = sortState{field: field, dir: dir} }
}

// New creates a board.
func New(f Fetcher, symbols Symbols, opts ...Option) *Board {
	b := &Board{
		fetcher:   f,
		symbols:   symbols,
		log:       *logger.L(),
		now:       time.Now,
		sort:      sortState{field: SortBySymbol, dir: Asc},
		showChart: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Refresh replaces the result set with a fresh batch for the current symbols.
// When the batch comes back empty the previous results stay on screen and
// NoDataMessage is set.
func (b *Board) Refresh(ctx context.Context) error {
	syms := b.symbols.Symbols()
	if len(syms) == 0 {
		b.quotes = nil
		b.message = ""
		return nil
	}

	quotes, err := b.fetcher.FetchMany(ctx, syms)
	if err != nil {
		b.message = fmt.Sprintf("Failed to fetch stock data: %v", err)
		return err
	}

	b.log.Debug().Int("symbols", len(syms)).Int("quotes", len(quotes)).Msg("refresh cycle")

	if len(quotes) == 0 {
		b.message = NoDataMessage
		return nil
	}

	b.quotes = quotes
	b.updatedAt = b.now()
	b.message = ""
	return nil
}

// Add resolves symbol and, on success, adds it to the board and the
// persisted symbol set.
func (b *Board) Add(ctx context.Context, symbol string) (quote.Quote, error) {
	symbol = quote.NormalizeSymbol(symbol)
	if b.symbols.Contains(symbol) {
		err := fmt.Errorf("stock %s is %w", symbol, watchlist.ErrDuplicate)
		b.message = capitalize(err.Error())
		return quote.Quote{}, err
	}

	q, err := b.fetcher.FetchOne(ctx, symbol)
	if err != nil {
		b.message = capitalize(err.Error())
		return quote.Quote{}, err
	}

	if err := b.symbols.Add(symbol); err != nil {
		b.message = capitalize(err.Error())
		return quote.Quote{}, err
	}
	if err := b.symbols.Save(); err != nil {
		b.log.Error().Err(err).Msg("failed to save watchlist")
	}

	b.quotes = append(b.quotes, q)
	b.message = ""
	return q, nil
}

// Remove drops symbol from the board and the persisted symbol set.
func (b *Board) Remove(symbol string) error {
	symbol = quote.NormalizeSymbol(symbol)
	if err := b.symbols.Remove(symbol); err != nil {
		return err
	}
	if err := b.symbols.Save(); err != nil {
		b.log.Error().Err(err).Msg("failed to save watchlist")
	}

	b.quotes = slices.DeleteFunc(b.quotes, func(q quote.Quote) bool {
		return q.Symbol == symbol
	})
	return nil
}

// Quotes returns the current result set in fetch order.
func (b *Board) Quotes() []quote.Quote {
	return slices.Clone(b.quotes)
}

// Message returns the pending user-facing message, if any.
func (b *Board) Message() string {
	return b.message
}

// ClearMessage dismisses the pending message.
func (b *Board) ClearMessage() {
	b.message = ""
}

// UpdatedAt is the time of the last refresh that produced data.
func (b *Board) UpdatedAt() time.Time {
	return b.updatedAt
}

// ToggleChart flips chart visibility and returns the new state.
func (b *Board) ToggleChart() bool {
	b.showChart = !b.showChart
	return b.showChart
}

// ShowChart reports whether the chart is visible.
func (b *Board) ShowChart() bool {
	return b.showChart
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsDuplicate reports whether err came from adding an already listed symbol.
func IsDuplicate(err error) bool {
	return errors.Is(err, watchlist.ErrDuplicate)
}
