package dashboard

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"quotedash/internal/quote"
)

const (
	title     = "Stock Price Dashboard"
	chartBars = 40
)

// Render writes the full dashboard: header, pending message, chart and table.
func (b *Board) Render(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString(title + "\n")
	if b.updatedAt.IsZero() {
		sb.WriteString("Not updated yet\n")
	} else {
		sb.WriteString("Updated " + humanize.RelTime(b.updatedAt, b.now(), "ago", "from now") + "\n")
	}
	if b.message != "" {
		sb.WriteString("! " + b.message + "\n")
	}
	sb.WriteString("\n")

	if b.showChart && len(b.quotes) > 0 {
		if err := b.RenderChart(&sb); err != nil {
			return err
		}
		sb.WriteString("\n")
	}
	if err := b.RenderTable(&sb); err != nil {
		return err
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderTable writes the sorted result set as an aligned table. The active
// sort column carries an arrow.
func (b *Board) RenderTable(w io.Writer) error {
	if len(b.quotes) == 0 {
		_, err := fmt.Fprintln(w, "No stock data available")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
		b.header("Symbol", SortBySymbol),
		b.header("Price", SortByPrice),
		b.header("Change %", SortByChangePercent),
		"Change", "High", "Low", "Open", "Prev Close")

	for _, q := range b.Sorted() {
		fmt.Fprintf(tw, "%s\t$%.2f\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			q.Symbol,
			q.Price,
			signed(q.ChangePercent, "", "%"),
			signed(q.Change, "$", ""),
			q.High, q.Low, q.Open, q.PreviousClose)
	}
	return tw.Flush()
}

// RenderChart writes horizontal price bars ordered by ascending price.
func (b *Board) RenderChart(w io.Writer) error {
	if len(b.quotes) == 0 {
		_, err := fmt.Fprintln(w, "No data available to display chart")
		return err
	}

	byPrice := slices.Clone(b.quotes)
	slices.SortStableFunc(byPrice, func(x, y quote.Quote) int {
		return cmp.Compare(x.Price, y.Price)
	})

	maxPrice, width := 0.0, 0
	for _, q := range byPrice {
		maxPrice = math.Max(maxPrice, q.Price)
		width = max(width, len(q.Symbol))
	}

	var sb strings.Builder
	sb.WriteString("Stock Price Comparison (USD)\n")
	for _, q := range byPrice {
		n := 0
		if maxPrice > 0 {
			n = int(math.Round(q.Price / maxPrice * chartBars))
		}
		fmt.Fprintf(&sb, "%-*s %s%s $%.2f (%s)\n",
			width, q.Symbol,
			strings.Repeat("#", n), strings.Repeat(" ", chartBars-n),
			q.Price, signed(q.ChangePercent, "", "%"))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (b *Board) header(label string, field SortField) string {
	if b.sort.field != field {
		return label
	}
	if b.sort.dir == Desc {
		return label + " v"
	}
	return label + " ^"
}

// signed formats v with 2 decimals and an explicit sign for non-negatives.
func signed(v float64, prefix, suffix string) string {
	if v >= 0 {
		return fmt.Sprintf("+%s%.2f%s", prefix, v, suffix)
	}
	return fmt.Sprintf("-%s%.2f%s", prefix, -v, suffix)
}
