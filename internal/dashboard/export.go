package dashboard

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
)

// ErrNothingToExport is returned when the board holds no quotes.
var ErrNothingToExport = errors.New("no stock data to export")

// csvRow is one exported line; numbers are preformatted to 2 decimals.
type csvRow struct {
	Symbol        string `csv:"Symbol"`
	Price         string `csv:"Price"`
	Change        string `csv:"Change"`
	ChangePercent string `csv:"Change %"`
	High          string `csv:"High"`
	Low           string `csv:"Low"`
	Open          string `csv:"Open"`
	PreviousClose string `csv:"Previous Close"`
}

// ExportCSV writes the sorted result set as CSV with a header row.
func (b *Board) ExportCSV(w io.Writer) error {
	if len(b.quotes) == 0 {
		return ErrNothingToExport
	}

	sorted := b.Sorted()
	rows := make([]csvRow, 0, len(sorted))
	for _, q := range sorted {
		rows = append(rows, csvRow{
			Symbol:        q.Symbol,
			Price:         fmt.Sprintf("%.2f", q.Price),
			Change:        fmt.Sprintf("%.2f", q.Change),
			ChangePercent: fmt.Sprintf("%.2f%%", q.ChangePercent),
			High:          fmt.Sprintf("%.2f", q.High),
			Low:           fmt.Sprintf("%.2f", q.Low),
			Open:          fmt.Sprintf("%.2f", q.Open),
			PreviousClose: fmt.Sprintf("%.2f", q.PreviousClose),
		})
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ExportFileName is the default file name for an export taken at t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("stock-data-%s.csv", t.Format("2006-01-02"))
}
