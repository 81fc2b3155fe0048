// Package providers defines the market-data surface the rest of the
// application consumes. The scanner, search, and handlers never talk to a
// vendor API directly; they depend on MarketProvider and get whatever
// implementation the server wires in.
package providers

import (
	"context"
	"time"
)

// Quote is a current stock quote.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	PreviousClose float64   `json:"previousClose"`
	DayHigh       float64   `json:"dayHigh"`
	DayLow        float64   `json:"dayLow"`
	Volume        int64     `json:"volume"`
	MarketCap     int64     `json:"marketCap"`
	AsOf          time.Time `json:"asOf"`
}

// ChainOption is one row of an option chain.
type ChainOption struct {
	ContractSymbol    string  `json:"contractSymbol"`
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	Change            float64 `json:"change"`
	PercentChange     float64 `json:"percentChange"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
	ImpliedVolatility float64 `json:"impliedVolatility"` // percent
	InTheMoney        bool    `json:"inTheMoney"`
}

// Chain is a full option chain for one symbol and expiry.
type Chain struct {
	Symbol         string        `json:"symbol"`
	Expirations    []string      `json:"expirations"`
	SelectedExpiry string        `json:"selectedExpiry"`
	Calls          []ChainOption `json:"calls"`
	Puts           []ChainOption `json:"puts"`
}

// MarketProvider fetches quotes and option chains. Implementations must be
// safe for concurrent use; the scanner fans out across tickers.
type MarketProvider interface {
	// GetQuote returns the current quote for a symbol.
	GetQuote(ctx context.Context, symbol string) (*Quote, error)

	// GetOptionChain returns the chain for a symbol. An empty expiry selects
	// the nearest available expiration.
	GetOptionChain(ctx context.Context, symbol, expiry string) (*Chain, error)

	// Name identifies the provider in logs.
	Name() string
}

// QuoteChainFetcher is an optional provider capability: return the quote and
// the chain from a single upstream request. The scanner prefers this when the
// provider offers it; otherwise it falls back to two calls.
type QuoteChainFetcher interface {
	GetQuoteAndChain(ctx context.Context, symbol, expiry string) (*Quote, *Chain, error)
}

// Mid returns the option's mid price when both sides are quoted, else the
// last trade, else zero. Callers needing a hard fallback apply their own.
func (o ChainOption) Mid() float64 {
	if o.Bid > 0 && o.Ask > 0 {
		return (o.Bid + o.Ask) / 2
	}
	return o.LastPrice
}

// Spread returns the absolute bid/ask spread, zero when either side is
// missing.
func (o ChainOption) Spread() float64 {
	if o.Bid > 0 && o.Ask > 0 {
		return o.Ask - o.Bid
	}
	return 0
}
