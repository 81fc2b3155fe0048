// Package scanner finds the most active near-term option contracts, per
// ticker and across the whole watchlist universe, and ranks them by scalp
// suitability.
package scanner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmaas/scalpdeck/internal/greeks"
	"github.com/dmaas/scalpdeck/internal/logger"
	"github.com/dmaas/scalpdeck/internal/models"
	"github.com/dmaas/scalpdeck/internal/providers"
	"github.com/dmaas/scalpdeck/internal/utils"
)

// SymbolSource supplies the universe for a market scan.
type SymbolSource interface {
	ScannerSymbols() ([]string, error)
}

// Options configures a Scanner.
type Options struct {
	Workers      int // concurrent ticker fetches
	TopPerTicker int // contracts kept per side per ticker in a market scan
	TopOverall   int // contracts kept per side in the merged result
	ExpiryWindow int // how many near expirations to consider
}

func (o *Options) defaults() {
	if o.Workers <= 0 {
		o.Workers = 10
	}
	if o.TopPerTicker <= 0 {
		o.TopPerTicker = 3
	}
	if o.TopOverall <= 0 {
		o.TopOverall = 50
	}
	if o.ExpiryWindow <= 0 {
		o.ExpiryWindow = 5
	}
}

// Scanner fetches chains and ranks contracts. Safe for concurrent use.
type Scanner struct {
	provider providers.MarketProvider
	symbols  SymbolSource
	opts     Options
	now      func() time.Time
}

// New builds a Scanner over a provider and a symbol source.
func New(provider providers.MarketProvider, symbols SymbolSource, opts Options) *Scanner {
	opts.defaults()
	return &Scanner{
		provider: provider,
		symbols:  symbols,
		opts:     opts,
		now:      time.Now,
	}
}

// TopVolume returns the topN most traded calls and puts for one ticker at the
// expiry nearest to tomorrow, enriched with Greeks and scalp metrics.
func (s *Scanner) TopVolume(ctx context.Context, ticker string, topN int) (*models.TopVolumeResult, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if topN <= 0 {
		topN = 10
	}

	quote, chain, err := s.fetchQuoteAndChain(ctx, ticker, "")
	if err != nil {
		return nil, err
	}

	result := &models.TopVolumeResult{
		Symbol:     ticker,
		StockPrice: models.Round2(quote.Price),
		DayHigh:    models.Round2(quote.DayHigh),
		DayLow:     models.Round2(quote.DayLow),
		TopCalls:   []models.ScannedOption{},
		TopPuts:    []models.ScannedOption{},
	}
	if len(chain.Expirations) == 0 {
		result.Message = "No options available for this ticker"
		return result, nil
	}

	// Scalps live a day or two out: pick the listed expiry nearest tomorrow.
	target := s.now().AddDate(0, 0, 1)
	bestExpiry := utils.NearestExpiry(chain.Expirations, target, s.opts.ExpiryWindow)
	if bestExpiry != chain.SelectedExpiry {
		_, chain, err = s.fetchQuoteAndChain(ctx, ticker, bestExpiry)
		if err != nil {
			return nil, err
		}
	}

	days := utils.DaysToExpiry(bestExpiry, s.now())
	// Half a day minimum keeps 0DTE Greeks finite.
	years := maxFloat(float64(days), 0.5) / 365.0

	result.Expiry = bestExpiry
	result.DaysToExpiry = days
	result.TopCalls = s.rank(chain.Calls, true, quote, years, topN)
	result.TopPuts = s.rank(chain.Puts, false, quote, years, topN)
	return result, nil
}

// rank sorts one side of a chain by volume and enriches the top rows.
func (s *Scanner) rank(rows []providers.ChainOption, isCall bool, quote *providers.Quote, years float64, topN int) []models.ScannedOption {
	sorted := make([]providers.ChainOption, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Volume > sorted[j].Volume })
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}

	out := make([]models.ScannedOption, 0, len(sorted))
	for _, row := range sorted {
		out = append(out, s.enrich(row, isCall, quote, years))
	}
	return out
}

func (s *Scanner) enrich(row providers.ChainOption, isCall bool, quote *providers.Quote, years float64) models.ScannedOption {
	spot := quote.Price
	if spot <= 0 {
		spot = row.Strike
	}

	g := greeks.Compute(isCall, spot, row.Strike, years, row.ImpliedVolatility/100)

	var volOI float64
	if row.OpenInterest > 0 {
		volOI = models.Round2(float64(row.Volume) / float64(row.OpenInterest))
	}

	mid := row.Mid()
	spread := models.Round2(row.Spread())
	var spreadPct float64
	if mid > 0 {
		spreadPct = models.Round1(spread / mid * 100)
	}

	score := greeks.ScalpScore(g.Gamma, volOI, spreadPct, g.Delta)
	revProfit, revPct := greeks.Reversal(isCall, quote.Price, quote.DayHigh, quote.DayLow, g.Delta, mid)

	side := "PUT"
	if isCall {
		side = "CALL"
	}
	return models.ScannedOption{
		Type:              side,
		Strike:            row.Strike,
		LastPrice:         row.LastPrice,
		Bid:               row.Bid,
		Ask:               row.Ask,
		Spread:            spread,
		SpreadPct:         spreadPct,
		Volume:            row.Volume,
		OpenInterest:      row.OpenInterest,
		ImpliedVolatility: row.ImpliedVolatility,
		InTheMoney:        row.InTheMoney,
		ContractSymbol:    row.ContractSymbol,
		Greeks:            g,
		VolOIRatio:        volOI,
		ScalpScore:        score,
		ReversalProfit:    revProfit,
		ReversalPct:       revPct,
	}
}

// ScanMarket runs TopVolume across the whole symbol universe in parallel and
// merges the per-ticker winners into one ranked board. Per-ticker failures
// are collected, not fatal.
func (s *Scanner) ScanMarket(ctx context.Context) (*models.ScanResult, error) {
	symbols, err := s.symbols.ScannerSymbols()
	if err != nil {
		return nil, fmt.Errorf("loading scan universe: %w", err)
	}

	type tickerResult struct {
		ticker string
		result *models.TopVolumeResult
		err    error
	}
	results := make([]tickerResult, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, ticker := range symbols {
		i, ticker := i, ticker
		g.Go(func() error {
			r, err := s.TopVolume(gctx, ticker, s.opts.TopPerTicker)
			results[i] = tickerResult{ticker: ticker, result: r, err: err}
			return nil // per-ticker errors stay per-ticker
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	scan := &models.ScanResult{
		TotalStocks:   len(symbols),
		Timestamp:     s.now().Format(time.RFC3339),
		ScannedStocks: []string{},
		TopCalls:      []models.ScannedOption{},
		TopPuts:       []models.ScannedOption{},
	}

	for _, tr := range results {
		if tr.err != nil {
			scan.Errors = append(scan.Errors, fmt.Sprintf("%s: %v", tr.ticker, tr.err))
			continue
		}
		scan.ScannedStocks = append(scan.ScannedStocks, tr.ticker)
		scan.TopCalls = append(scan.TopCalls, tagTicker(tr.result.TopCalls, tr.result)...)
		scan.TopPuts = append(scan.TopPuts, tagTicker(tr.result.TopPuts, tr.result)...)
	}

	sortByScalpScore(scan.TopCalls)
	sortByScalpScore(scan.TopPuts)
	if len(scan.TopCalls) > s.opts.TopOverall {
		scan.TopCalls = scan.TopCalls[:s.opts.TopOverall]
	}
	if len(scan.TopPuts) > s.opts.TopOverall {
		scan.TopPuts = scan.TopPuts[:s.opts.TopOverall]
	}

	logger.Log.Infof("market scan: %d/%d tickers, %d calls, %d puts, %d errors",
		len(scan.ScannedStocks), scan.TotalStocks, len(scan.TopCalls), len(scan.TopPuts), len(scan.Errors))
	return scan, nil
}

func tagTicker(opts []models.ScannedOption, src *models.TopVolumeResult) []models.ScannedOption {
	tagged := make([]models.ScannedOption, len(opts))
	for i, o := range opts {
		o.Ticker = src.Symbol
		o.Expiry = src.Expiry
		o.DaysToExpiry = src.DaysToExpiry
		o.StockPrice = src.StockPrice
		o.DayHigh = src.DayHigh
		o.DayLow = src.DayLow
		tagged[i] = o
	}
	return tagged
}

func sortByScalpScore(opts []models.ScannedOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].ScalpScore != opts[j].ScalpScore {
			return opts[i].ScalpScore > opts[j].ScalpScore
		}
		return opts[i].Volume > opts[j].Volume
	})
}

func (s *Scanner) fetchQuoteAndChain(ctx context.Context, symbol, expiry string) (*providers.Quote, *providers.Chain, error) {
	if qc, ok := s.provider.(providers.QuoteChainFetcher); ok {
		return qc.GetQuoteAndChain(ctx, symbol, expiry)
	}
	quote, err := s.provider.GetQuote(ctx, symbol)
	if err != nil {
		return nil, nil, err
	}
	chain, err := s.provider.GetOptionChain(ctx, symbol, expiry)
	if err != nil {
		return nil, nil, err
	}
	return quote, chain, nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
