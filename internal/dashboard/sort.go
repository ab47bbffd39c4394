package dashboard

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"quotedash/internal/quote"
)

// SortField is a sortable table column.
type SortField string

const (
	SortBySymbol        SortField = "symbol"
	SortByPrice         SortField = "price"
	SortByChangePercent SortField = "changePercent"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type sortState struct {
	field SortField
	dir   Direction
}

// ParseSortField accepts the column names used on the command line.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "symbol":
		return SortBySymbol, nil
	case "price":
		return SortByPrice, nil
	case "changepercent", "change%", "change", "pct":
		return SortByChangePercent, nil
	}
	return "", fmt.Errorf("unknown sort field %q (want symbol, price or changePercent)", s)
}

// SortBy selects a column. Selecting the active column flips the
// direction; selecting another column sorts it ascending.
func (b *Board) SortBy(field SortField) {
	if b.sort.field == field {
		if b.sort.dir == Asc {
			b.sort.dir = Desc
		} else {
			b.sort.dir = Asc
		}
		return
	}
	b.sort = sortState{field: field, dir: Asc}
}

// Sort returns the active column and direction.
func (b *Board) Sort() (SortField, Direction) {
	return b.sort.field, b.sort.dir
}

// Sorted returns the result set ordered by the active column. Ties keep
// fetch order.
func (b *Board) Sorted() []quote.Quote {
	out := slices.Clone(b.quotes)
	slices.SortStableFunc(out, func(x, y quote.Quote) int {
		c := compare(b.sort.field, x, y)
		if b.sort.dir == Desc {
			return -c
		}
		return c
	})
	return out
}

func compare(field SortField, x, y quote.Quote) int {
	switch field {
	case SortByPrice:
		return cmp.Compare(x.Price, y.Price)
	case SortByChangePercent:
		return cmp.Compare(x.ChangePercent, y.ChangePercent)
	default:
		return strings.Compare(x.Symbol, y.Symbol)
	}
}

