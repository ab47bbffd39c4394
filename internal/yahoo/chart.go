package yahoo

// ChartResponse is the envelope returned by the v8 chart endpoint.
// Every field is optional; the client decides what is missing.
type ChartResponse struct {
	Chart *Chart `json:"chart"`
}

// Chart holds the result entries or an API-level error.
type Chart struct {
	Result []ChartResult `json:"result"`
	Error  *ChartError   `json:"error"`
}

// ChartError is the error block Yahoo attaches to failed lookups.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ChartResult is one symbol's chart: metadata plus the indicator series.
type ChartResult struct {
	Meta       *Meta       `json:"meta"`
	Indicators *Indicators `json:"indicators"`
}

// Meta is the quote metadata block.
type Meta struct {
	Symbol               *string  `json:"symbol"`
	Currency             *string  `json:"currency"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	PreviousClose        *float64 `json:"previousClose"`
	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
	RegularMarketOpen    *float64 `json:"regularMarketOpen"`
}

// Indicators wraps the per-interval OHLC series.
type Indicators struct {
	Quote []Series `json:"quote"`
}

// Series entries may be null when an interval has no trades.
type Series struct {
	High []*float64 `json:"high"`
	Low  []*float64 `json:"low"`
	Open []*float64 `json:"open"`
}

// series returns the first quote series, or an empty one.
func (r ChartResult) series() Series {
	if r.Indicators == nil || len(r.Indicators.Quote) == 0 {
		return Series{}
	}
	return r.Indicators.Quote[0]
}
