// Package yahoo implements providers.MarketProvider against the public Yahoo
// Finance options endpoint. A single call returns the underlying quote, the
// expiration list, and the chain for one expiry, which keeps the scanner at
// one request per ticker.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dmaas/scalpdeck/internal/logger"
	"github.com/dmaas/scalpdeck/internal/providers"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultBaseURL = "https://query2.finance.yahoo.com"

// Provider fetches quotes and chains from Yahoo Finance. Safe for concurrent
// use: the underlying http.Client is shared and stateless.
type Provider struct {
	baseURL string
	client  *http.Client
}

// New builds a provider. An empty baseURL uses the public endpoint; tests
// point it at an httptest server.
func New(baseURL string, timeout time.Duration) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *Provider) Name() string { return "yahoo" }

// optionsResponse mirrors the v7/finance/options payload, trimmed to the
// fields the dashboard uses.
type optionsResponse struct {
	OptionChain struct {
		Result []struct {
			UnderlyingSymbol string  `json:"underlyingSymbol"`
			ExpirationDates  []int64 `json:"expirationDates"`
			Quote            struct {
				ShortName                  string  `json:"shortName"`
				RegularMarketPrice         float64 `json:"regularMarketPrice"`
				RegularMarketChange        float64 `json:"regularMarketChange"`
				RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
				RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
				RegularMarketDayHigh       float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow        float64 `json:"regularMarketDayLow"`
				RegularMarketVolume        int64   `json:"regularMarketVolume"`
				MarketCap                  int64   `json:"marketCap"`
			} `json:"quote"`
			Options []struct {
				ExpirationDate int64      `json:"expirationDate"`
				Calls          []chainRow `json:"calls"`
				Puts           []chainRow `json:"puts"`
			} `json:"options"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"optionChain"`
}

type chainRow struct {
	ContractSymbol    string  `json:"contractSymbol"`
	Strike            float64 `json:"strike"`
	LastPrice         float64 `json:"lastPrice"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	Change            float64 `json:"change"`
	PercentChange     float64 `json:"percentChange"`
	Volume            int64   `json:"volume"`
	OpenInterest      int64   `json:"openInterest"`
	ImpliedVolatility float64 `json:"impliedVolatility"` // decimal, e.g. 0.42
	InTheMoney        bool    `json:"inTheMoney"`
}

// GetQuote returns the current quote for a symbol.
func (p *Provider) GetQuote(ctx context.Context, symbol string) (*providers.Quote, error) {
	resp, err := p.fetchOptions(ctx, symbol, 0)
	if err != nil {
		return nil, err
	}
	return p.quoteFrom(symbol, resp), nil
}

// GetOptionChain returns the chain for a symbol. An empty expiry selects the
// nearest listed expiration.
func (p *Provider) GetOptionChain(ctx context.Context, symbol, expiry string) (*providers.Chain, error) {
	_, chain, err := p.GetQuoteAndChain(ctx, symbol, expiry)
	return chain, err
}

// GetQuoteAndChain returns both in a single request; the chain payload
// carries the underlying quote, so the scanner stays at one call per ticker.
func (p *Provider) GetQuoteAndChain(ctx context.Context, symbol, expiry string) (*providers.Quote, *providers.Chain, error) {
	var date int64
	if expiry != "" {
		d, err := time.ParseInLocation("2006-01-02", expiry, time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid expiry %q: %w", expiry, err)
		}
		date = d.Unix()
	}

	resp, err := p.fetchOptions(ctx, symbol, date)
	if err != nil {
		return nil, nil, err
	}

	result := resp.OptionChain.Result[0]
	chain := &providers.Chain{
		Symbol:      strings.ToUpper(symbol),
		Expirations: make([]string, 0, len(result.ExpirationDates)),
	}
	for _, epoch := range result.ExpirationDates {
		chain.Expirations = append(chain.Expirations, time.Unix(epoch, 0).UTC().Format("2006-01-02"))
	}

	if len(result.Options) > 0 {
		opt := result.Options[0]
		chain.SelectedExpiry = time.Unix(opt.ExpirationDate, 0).UTC().Format("2006-01-02")
		chain.Calls = convertRows(opt.Calls)
		chain.Puts = convertRows(opt.Puts)
	}
	return p.quoteFrom(symbol, resp), chain, nil
}

func (p *Provider) quoteFrom(symbol string, resp *optionsResponse) *providers.Quote {
	q := resp.OptionChain.Result[0].Quote
	return &providers.Quote{
		Symbol:        strings.ToUpper(symbol),
		Name:          q.ShortName,
		Price:         round2(q.RegularMarketPrice),
		Change:        round2(q.RegularMarketChange),
		ChangePercent: round2(q.RegularMarketChangePercent),
		PreviousClose: round2(q.RegularMarketPreviousClose),
		DayHigh:       round2(q.RegularMarketDayHigh),
		DayLow:        round2(q.RegularMarketDayLow),
		Volume:        q.RegularMarketVolume,
		MarketCap:     q.MarketCap,
		AsOf:          time.Now(),
	}
}

func (p *Provider) fetchOptions(ctx context.Context, symbol string, date int64) (*optionsResponse, error) {
	url := fmt.Sprintf("%s/v7/finance/options/%s", p.baseURL, strings.ToUpper(symbol))
	if date > 0 {
		url = fmt.Sprintf("%s?date=%d", url, date)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "scalpdeck/1.0")

	logger.Log.Debugf("yahoo request: %s", url)
	start := time.Now()

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading yahoo response for %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned %d for %s: %s", resp.StatusCode, symbol, truncate(body, 200))
	}

	var parsed optionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding yahoo response for %s: %w", symbol, err)
	}
	if len(parsed.OptionChain.Result) == 0 {
		return nil, fmt.Errorf("yahoo returned no data for %s", symbol)
	}

	logger.Log.Debugf("yahoo %s: %d bytes in %v", symbol, len(body), time.Since(start))
	return &parsed, nil
}

func convertRows(rows []chainRow) []providers.ChainOption {
	out := make([]providers.ChainOption, 0, len(rows))
	for _, r := range rows {
		out = append(out, providers.ChainOption{
			ContractSymbol:    r.ContractSymbol,
			Strike:            r.Strike,
			LastPrice:         r.LastPrice,
			Bid:               r.Bid,
			Ask:               r.Ask,
			Change:            r.Change,
			PercentChange:     r.PercentChange,
			Volume:            r.Volume,
			OpenInterest:      r.OpenInterest,
			ImpliedVolatility: round2(r.ImpliedVolatility * 100),
			InTheMoney:        r.InTheMoney,
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
