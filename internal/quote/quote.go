package quote

import (
	"math"
	"strings"
)

// Quote is the canonical price record for one ticker symbol at one point in time.
// Every numeric field is rounded to 2 decimal places.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previousClose"`
}

// Usable reports whether the quote carries a strictly positive price.
func (q Quote) Usable() bool {
	return q.Price > 0
}

// Round2 rounds half-up on the value scaled by 100.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// NormalizeSymbol canonicalizes a ticker: surrounding whitespace removed, uppercase.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
