package scanner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmaas/scalpdeck/internal/providers"
)

// fakeProvider serves canned chains and counts calls.
type fakeProvider struct {
	mu     sync.Mutex
	chains map[string]*providers.Chain
	quotes map[string]*providers.Quote
	errs   map[string]error
	calls  int32
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GetQuote(ctx context.Context, symbol string) (*providers.Quote, error) {
	atomic.AddInt32(&f.calls, 1)
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return q, nil
}

func (f *fakeProvider) GetOptionChain(ctx context.Context, symbol, expiry string) (*providers.Chain, error) {
	atomic.AddInt32(&f.calls, 1)
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	c, ok := f.chains[symbol]
	if !ok {
		return nil, fmt.Errorf("no chain for %s", symbol)
	}
	return c, nil
}

type staticSymbols []string

func (s staticSymbols) ScannerSymbols() ([]string, error) { return s, nil }

func testDate() time.Time {
	return time.Date(2025, 12, 15, 10, 0, 0, 0, time.UTC)
}

func testChain(symbol string, volumes ...int64) *providers.Chain {
	c := &providers.Chain{
		Symbol:         symbol,
		Expirations:    []string{"2025-12-16", "2025-12-19"},
		SelectedExpiry: "2025-12-16",
	}
	for i, v := range volumes {
		strike := 448.0 + float64(i)
		c.Calls = append(c.Calls, providers.ChainOption{
			ContractSymbol:    fmt.Sprintf("%s251216C%05d", symbol, int(strike)),
			Strike:            strike,
			LastPrice:         2.50,
			Bid:               2.45,
			Ask:               2.55,
			Volume:            v,
			OpenInterest:      1000,
			ImpliedVolatility: 25,
		})
		c.Puts = append(c.Puts, providers.ChainOption{
			ContractSymbol:    fmt.Sprintf("%s251216P%05d", symbol, int(strike)),
			Strike:            strike,
			LastPrice:         2.10,
			Bid:               2.05,
			Ask:               2.15,
			Volume:            v / 2,
			OpenInterest:      800,
			ImpliedVolatility: 27,
		})
	}
	return c
}

func testQuote(symbol string) *providers.Quote {
	return &providers.Quote{Symbol: symbol, Price: 448.12, DayHigh: 451.02, DayLow: 446.58}
}

func newTestScanner(f *fakeProvider, symbols []string) *Scanner {
	s := New(f, staticSymbols(symbols), Options{Workers: 4, TopPerTicker: 2, TopOverall: 3})
	s.now = testDate
	return s
}

func TestTopVolumeRanksByVolume(t *testing.T) {
	f := &fakeProvider{
		chains: map[string]*providers.Chain{"SPY": testChain("SPY", 100, 900, 500)},
		quotes: map[string]*providers.Quote{"SPY": testQuote("SPY")},
	}
	s := newTestScanner(f, nil)

	r, err := s.TopVolume(context.Background(), "spy", 2)
	if err != nil {
		t.Fatal(err)
	}
	if r.Symbol != "SPY" {
		t.Errorf("symbol = %v", r.Symbol)
	}
	if r.Expiry != "2025-12-16" {
		t.Errorf("expiry = %v, want nearest to tomorrow", r.Expiry)
	}
	if r.DaysToExpiry != 1 {
		t.Errorf("daysToExpiry = %d, want 1", r.DaysToExpiry)
	}
	if len(r.TopCalls) != 2 {
		t.Fatalf("topCalls = %d, want 2", len(r.TopCalls))
	}
	if r.TopCalls[0].Volume != 900 || r.TopCalls[1].Volume != 500 {
		t.Errorf("calls not volume-sorted: %d, %d", r.TopCalls[0].Volume, r.TopCalls[1].Volume)
	}
}

func TestTopVolumeEnrichment(t *testing.T) {
	f := &fakeProvider{
		chains: map[string]*providers.Chain{"SPY": testChain("SPY", 500)},
		quotes: map[string]*providers.Quote{"SPY": testQuote("SPY")},
	}
	s := newTestScanner(f, nil)

	r, err := s.TopVolume(context.Background(), "SPY", 5)
	if err != nil {
		t.Fatal(err)
	}
	call := r.TopCalls[0]

	if call.Type != "CALL" {
		t.Errorf("type = %v", call.Type)
	}
	if call.Delta <= 0 || call.Delta >= 1 {
		t.Errorf("call delta = %v, want in (0,1)", call.Delta)
	}
	if call.VolOIRatio != 0.5 {
		t.Errorf("volOI = %v, want 500/1000 = 0.5", call.VolOIRatio)
	}
	if call.Spread != 0.1 {
		t.Errorf("spread = %v, want 0.10", call.Spread)
	}
	if call.ScalpScore <= 0 {
		t.Errorf("scalpScore = %v, want positive for a liquid ATM contract", call.ScalpScore)
	}
	// Spot 448.12 below day high 451.02: calls have reversal upside.
	if call.ReversalProfit <= 0 {
		t.Errorf("reversalProfit = %v, want positive", call.ReversalProfit)
	}

	put := r.TopPuts[0]
	if put.Delta >= 0 {
		t.Errorf("put delta = %v, want negative", put.Delta)
	}
}

func TestTopVolumeNoOptions(t *testing.T) {
	f := &fakeProvider{
		chains: map[string]*providers.Chain{"XYZ": {Symbol: "XYZ"}},
		quotes: map[string]*providers.Quote{"XYZ": {Symbol: "XYZ", Price: 10}},
	}
	s := newTestScanner(f, nil)

	r, err := s.TopVolume(context.Background(), "XYZ", 5)
	if err != nil {
		t.Fatal(err)
	}
	if r.Message == "" {
		t.Error("expected a no-options message")
	}
	if len(r.TopCalls) != 0 || len(r.TopPuts) != 0 {
		t.Error("expected empty sides")
	}
}

func TestScanMarketMergesAndRanks(t *testing.T) {
	f := &fakeProvider{
		chains: map[string]*providers.Chain{
			"SPY":  testChain("SPY", 900, 100),
			"QQQ":  testChain("QQQ", 700),
			"AAPL": testChain("AAPL", 300),
		},
		quotes: map[string]*providers.Quote{
			"SPY":  testQuote("SPY"),
			"QQQ":  testQuote("QQQ"),
			"AAPL": testQuote("AAPL"),
		},
		errs: map[string]error{"BAD": fmt.Errorf("rate limited")},
	}
	s := newTestScanner(f, []string{"SPY", "QQQ", "AAPL", "BAD"})

	scan, err := s.ScanMarket(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if scan.TotalStocks != 4 {
		t.Errorf("totalStocks = %d, want 4", scan.TotalStocks)
	}
	if len(scan.ScannedStocks) != 3 {
		t.Errorf("scannedStocks = %v, want 3 entries", scan.ScannedStocks)
	}
	if len(scan.Errors) != 1 {
		t.Fatalf("errors = %v, want 1", scan.Errors)
	}

	// TopOverall = 3 caps the merged board.
	if len(scan.TopCalls) != 3 {
		t.Fatalf("topCalls = %d, want capped at 3", len(scan.TopCalls))
	}
	for _, o := range scan.TopCalls {
		if o.Ticker == "" || o.Expiry == "" || o.StockPrice == 0 {
			t.Errorf("merged option missing ticker context: %+v", o)
		}
	}
	for i := 1; i < len(scan.TopCalls); i++ {
		prev, cur := scan.TopCalls[i-1], scan.TopCalls[i]
		if prev.ScalpScore < cur.ScalpScore {
			t.Errorf("board not sorted by scalpScore at %d", i)
		}
		if prev.ScalpScore == cur.ScalpScore && prev.Volume < cur.Volume {
			t.Errorf("volume tiebreak broken at %d", i)
		}
	}
}

func TestCachedScanner(t *testing.T) {
	f := &fakeProvider{
		chains: map[string]*providers.Chain{"SPY": testChain("SPY", 500)},
		quotes: map[string]*providers.Quote{"SPY": testQuote("SPY")},
	}
	c := NewCached(newTestScanner(f, []string{"SPY"}), time.Minute)

	if _, err := c.ScanMarket(context.Background()); err != nil {
		t.Fatal(err)
	}
	callsAfterFirst := atomic.LoadInt32(&f.calls)

	if _, err := c.ScanMarket(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&f.calls); got != callsAfterFirst {
		t.Errorf("second scan hit the provider (%d -> %d calls), want cached", callsAfterFirst, got)
	}

	c.Invalidate()
	if _, err := c.ScanMarket(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&f.calls); got == callsAfterFirst {
		t.Error("scan after Invalidate did not hit the provider")
	}
}
