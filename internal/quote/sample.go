package quote

// DefaultSymbols is the watchlist used until the user saves their own.
var DefaultSymbols = []string{"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN"}

// samples holds hand-authored quotes served when live retrieval fails.
var samples = map[string]Quote{
	"AAPL": {
		Symbol:        "AAPL",
		Price:         185.59,
		Change:        2.34,
		ChangePercent: 1.28,
		High:          186.50,
		Low:           183.20,
		Open:          184.10,
		PreviousClose: 183.25,
	},
	"GOOGL": {
		Symbol:        "GOOGL",
		Price:         142.83,
		Change:        -1.25,
		ChangePercent: -0.87,
		High:          144.20,
		Low:           142.10,
		Open:          144.08,
		PreviousClose: 144.08,
	},
	"MSFT": {
		Symbol:        "MSFT",
		Price:         378.85,
		Change:        5.12,
		ChangePercent: 1.37,
		High:          379.50,
		Low:           374.20,
		Open:          375.30,
		PreviousClose: 373.73,
	},
	"TSLA": {
		Symbol:        "TSLA",
		Price:         248.42,
		Change:        8.76,
		ChangePercent: 3.66,
		High:          250.80,
		Low:           240.50,
		Open:          241.20,
		PreviousClose: 239.66,
	},
	"AMZN": {
		Symbol:        "AMZN",
		Price:         151.94,
		Change:        1.45,
		ChangePercent: 0.96,
		High:          152.80,
		Low:           150.30,
		Open:          151.20,
		PreviousClose: 150.49,
	},
}

// Sample returns the fallback record for symbol, if one exists.
func Sample(symbol string) (Quote, bool) {
	q, ok := samples[NormalizeSymbol(symbol)]
	return q, ok
}
