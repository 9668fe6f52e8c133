package quote

import (
	"strings"

	"github.com/pkg/errors"
)

// Symbol is one tracked instrument.
type Symbol struct {
	Key      string // short name, as typed
	Name     string // display name
	Currency string
	Finnhub  string // symbol as the API knows it
}

// Symbols are the instruments the feed tracks, in display order.
var Symbols = []Symbol{
	{Key: "TSLA", Name: "Tesla, Inc.", Currency: "USD", Finnhub: "TSLA"},
	{Key: "AAPL", Name: "Apple Inc.", Currency: "USD", Finnhub: "AAPL"},
	{Key: "BTC", Name: "Bitcoin", Currency: "USDT", Finnhub: "BINANCE:BTCUSDT"},
}

// FindSymbol returns the tracked symbol with the given key.
func FindSymbol(key string) (Symbol, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	for _, s := range Symbols {
		if s.Key == key {
			return s, nil
		}
	}

	return Symbol{}, errors.Errorf("unknown symbol %q", key)
}

// Summary is one symbol's quote as shown to the user.
type Summary struct {
	Symbol   string
	Name     string
	Currency string
	Price    float64
	Delta    float64 // change since the previous close
	Percent  float64 // Delta as a percentage of the previous close
	Up       bool
}

// Summarize builds the summary of sym at price against prevClose. A zero
// previous close gives a zero percentage.
func Summarize(sym Symbol, price, prevClose float64) Summary {
	delta := price - prevClose

	pct := 0.0
	if prevClose != 0 {
		pct = delta / prevClose * 100
	}

	return Summary{
		Symbol:   sym.Key,
		Name:     sym.Name,
		Currency: sym.Currency,
		Price:    price,
		Delta:    delta,
		Percent:  pct,
		Up:       delta >= 0,
	}
}
