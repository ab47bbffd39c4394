package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"quotedash/internal/logger"
	"quotedash/internal/quote"
)

var (
	// ErrDuplicate is returned when adding a symbol already on the list.
	ErrDuplicate = errors.New("already in the list")
	// ErrNotFound is returned when removing a symbol that is not on the list.
	ErrNotFound = errors.New("not in the list")
)

// List is an ordered, duplicate-free set of uppercase ticker symbols
// persisted as a JSON array.
type List struct {
	path     string
	defaults []string
	symbols  []string
}

// New creates a list backed by path. defaults is used whenever nothing
// valid has been saved yet.
func New(path string, defaults []string) *List {
	return &List{
		path:     path,
		defaults: dedupe(defaults),
	}
}

// Load reads the saved symbols. A missing, unreadable, malformed or empty
// file yields the defaults; only the read failure is logged.
func (l *List) Load() []string {
	l.symbols = slices.Clone(l.defaults)

	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.L().Error().Err(err).Str("path", l.path).Msg("failed to read watchlist")
		}
		return l.Symbols()
	}

	var saved []string
	if err := json.Unmarshal(data, &saved); err != nil {
		logger.L().Error().Err(err).Str("path", l.path).Msg("failed to parse watchlist")
		return l.Symbols()
	}

	if saved = dedupe(saved); len(saved) > 0 {
		l.symbols = saved
	}
	return l.Symbols()
}

// Save writes the current symbols, creating the parent directory if needed.
func (l *List) Save() error {
	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create watchlist directory: %w", err)
		}
	}

	data, err := json.Marshal(l.symbols)
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write watchlist: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("failed to write watchlist: %w", err)
	}
	return nil
}

// Symbols returns a copy of the current symbols.
func (l *List) Symbols() []string {
	if l.symbols == nil {
		return []string{}
	}
	return slices.Clone(l.symbols)
}

// Contains reports whether symbol is on the list.
func (l *List) Contains(symbol string) bool {
	return slices.Contains(l.symbols, quote.NormalizeSymbol(symbol))
}

// Add appends symbol to the end of the list.
func (l *List) Add(symbol string) error {
	symbol = quote.NormalizeSymbol(symbol)
	if symbol == "" {
		return errors.New("symbol is empty")
	}
	if l.Contains(symbol) {
		return fmt.Errorf("stock %s is %w", symbol, ErrDuplicate)
	}
	l.symbols = append(l.symbols, symbol)
	return nil
}

// Remove deletes symbol from the list.
func (l *List) Remove(symbol string) error {
	symbol = quote.NormalizeSymbol(symbol)
	i := slices.Index(l.symbols, symbol)
	if i < 0 {
		return fmt.Errorf("stock %s is %w", symbol, ErrNotFound)
	}
	l.symbols = slices.Delete(l.symbols, i, i+1)
	return nil
}

// dedupe normalizes symbols, dropping blanks and repeats but keeping order.
func dedupe(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = quote.NormalizeSymbol(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}
