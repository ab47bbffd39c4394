package quote

import "math"

// Candidates lists, per field, the raw readings a source reported in
// preference order. A nil entry means the field was absent from the payload.
type Candidates struct {
	Price         []*float64
	PreviousClose []*float64
	High          []*float64
	Low           []*float64
	Open          []*float64
}

// Normalize resolves each field's candidate chain and derives change and
// change percent from the resolved price and previous close.
//
// Resolution order:
//   - price: candidates, else 0
//   - previous close: candidates, else price
//   - high, low: candidates, else price
//   - open: candidates, else previous close
//
// A zero reading is treated as absent.
func Normalize(symbol string, c Candidates) Quote {
	price := first(0, c.Price...)
	previousClose := first(price, c.PreviousClose...)
	high := first(price, c.High...)
	low := first(price, c.Low...)
	open := first(previousClose, c.Open...)

	change := price - previousClose
	changePercent := 0.0
	if previousClose != 0 {
		changePercent = change / previousClose * 100
	}

	return Quote{
		Symbol:        NormalizeSymbol(symbol),
		Price:         Round2(price),
		Change:        Round2(change),
		ChangePercent: Round2(changePercent),
		High:          Round2(high),
		Low:           Round2(low),
		Open:          Round2(open),
		PreviousClose: Round2(previousClose),
	}
}

// Last returns the final element of a series, or nil for an empty series.
func Last(series []*float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	return series[len(series)-1]
}

// first returns the first usable candidate, or def when none is.
func first(def float64, candidates ...*float64) float64 {
	for _, v := range candidates {
		if usable(v) {
			return *v
		}
	}
	return def
}

func usable(v *float64) bool {
	return v != nil && *v != 0 && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
