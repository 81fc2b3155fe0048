package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmaas/scalpdeck/internal/estimator"
	"github.com/dmaas/scalpdeck/internal/providers"
	"github.com/dmaas/scalpdeck/internal/scanner"
	"github.com/dmaas/scalpdeck/internal/search"
	"github.com/dmaas/scalpdeck/internal/watchlist"
)

type fakeProvider struct {
	quote *providers.Quote
	chain *providers.Chain
	err   error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) GetQuote(ctx context.Context, symbol string) (*providers.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

func (f *fakeProvider) GetOptionChain(ctx context.Context, symbol, expiry string) (*providers.Chain, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chain, nil
}

func testProvider() *fakeProvider {
	return &fakeProvider{
		quote: &providers.Quote{Symbol: "SPY", Price: 448.12, DayHigh: 451.02, DayLow: 446.58},
		chain: &providers.Chain{
			Symbol:         "SPY",
			Expirations:    []string{"2099-01-15", "2099-02-19"},
			SelectedExpiry: "2099-01-15",
			Calls: []providers.ChainOption{{
				ContractSymbol: "SPY990115C00450000", Strike: 450, LastPrice: 3.45,
				Bid: 3.40, Ask: 3.50, Volume: 1000, OpenInterest: 4000, ImpliedVolatility: 25.12,
			}},
			Puts: []providers.ChainOption{{
				ContractSymbol: "SPY990115P00445000", Strike: 445, LastPrice: 2.10,
				Bid: 2.05, Ask: 2.15, Volume: 800, OpenInterest: 3600, ImpliedVolatility: 27.33,
			}},
		},
	}
}

type noSymbols struct{}

func (noSymbols) ScannerSymbols() ([]string, error) { return []string{"SPY"}, nil }

func newTestHandler(t *testing.T, f *fakeProvider) *Handler {
	t.Helper()
	store, err := watchlist.Open(filepath.Join(t.TempDir(), "wl.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	est := estimator.New(estimator.DefaultTuning())
	sc := scanner.NewCached(scanner.New(f, noSymbols{}, scanner.Options{}), time.Minute)
	se := search.New(f, est.Model())
	return New(f, sc, se, est, store, nil)
}

func doRequest(h *Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, testProvider())
	rec := doRequest(h, "GET", "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	decode(t, rec, &body)
	if body["status"] != "ok" || body["provider"] != "fake" {
		t.Errorf("body = %v", body)
	}
	if body["historyConfigured"] != false {
		t.Errorf("historyConfigured = %v, want false without credentials", body["historyConfigured"])
	}
}

func TestQuoteEndpoint(t *testing.T) {
	h := newTestHandler(t, testProvider())
	rec := doRequest(h, "GET", "/api/quote/SPY", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var q providers.Quote
	decode(t, rec, &q)
	if q.Symbol != "SPY" || q.Price != 448.12 {
		t.Errorf("quote = %+v", q)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS header = %q", got)
	}
}

func TestQuoteEndpointUpstreamError(t *testing.T) {
	h := newTestHandler(t, &fakeProvider{err: fmt.Errorf("rate limited")})
	rec := doRequest(h, "GET", "/api/quote/SPY", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestOptionChainEndpoint(t *testing.T) {
	h := newTestHandler(t, testProvider())
	rec := doRequest(h, "GET", "/api/options/SPY?expiry=2099-01-15", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var chain providers.Chain
	decode(t, rec, &chain)
	if len(chain.Calls) != 1 || len(chain.Puts) != 1 {
		t.Errorf("chain = %+v", chain)
	}
}

func TestTopVolumeEndpoint(t *testing.T) {
	h := newTestHandler(t, testProvider())

	rec := doRequest(h, "GET", "/api/top-volume/SPY?top_n=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Symbol   string `json:"symbol"`
		TopCalls []struct {
			ScalpScore float64 `json:"scalpScore"`
		} `json:"topCalls"`
	}
	decode(t, rec, &body)
	if body.Symbol != "SPY" || len(body.TopCalls) != 1 {
		t.Fatalf("body = %s", rec.Body.String())
	}

	rec = doRequest(h, "GET", "/api/top-volume/SPY?top_n=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad top_n status = %d, want 400", rec.Code)
	}
}

func TestScanEndpoint(t *testing.T) {
	h := newTestHandler(t, testProvider())
	rec := doRequest(h, "GET", "/api/scan", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		ScannedStocks []string `json:"scannedStocks"`
		TotalStocks   int      `json:"totalStocks"`
	}
	decode(t, rec, &body)
	if body.TotalStocks != 1 || len(body.ScannedStocks) != 1 {
		t.Errorf("scan body = %s", rec.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	h := newTestHandler(t, testProvider())
	payload := []byte(`{"ticker":"SPY","targetPrice":460,"stopLoss":444,"targetDate":"2099-01-10","optionType":"CALL"}`)
	rec := doRequest(h, "POST", "/api/search", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Options []struct {
			RiskRewardRatio float64 `json:"riskRewardRatio"`
		} `json:"options"`
	}
	decode(t, rec, &body)
	if len(body.Options) == 0 {
		t.Errorf("no search results: %s", rec.Body.String())
	}

	rec = doRequest(h, "POST", "/api/search", []byte(`{"optionType":"CALL"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid search status = %d, want 400", rec.Code)
	}
}

func TestEstimateEvaluateEndpoint(t *testing.T) {
	h := newTestHandler(t, testProvider())
	payload := []byte(`{"optionType":"CALL","strike":450,"impliedVolatility":25,"observedPrice":3.50,
		"stockPrice":448,"daysToExpiry":1,"hoursRemaining":13}`)
	rec := doRequest(h, "POST", "/api/estimate/evaluate", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		OptionValue float64 `json:"optionValue"`
		TotalHours  float64 `json:"totalHours"`
	}
	decode(t, rec, &body)
	// Full horizon at the current spot: calibration pins the model to the
	// observed price.
	if body.OptionValue != 3.50 {
		t.Errorf("optionValue = %v, want the observed 3.50 at the full horizon", body.OptionValue)
	}
	if body.TotalHours != 13 {
		t.Errorf("totalHours = %v, want (1+1)*6.5", body.TotalHours)
	}

	rec = doRequest(h, "POST", "/api/estimate/evaluate", []byte(`{"optionType":"SPREAD"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid estimate status = %d, want 400", rec.Code)
	}
}

func TestEstimateEvaluateAtExpiry(t *testing.T) {
	h := newTestHandler(t, testProvider())

	// An explicit zero is honored, not snapped to the full horizon: the OTM
	// call collapses to the penny floor.
	payload := []byte(`{"optionType":"CALL","strike":450,"impliedVolatility":25,"observedPrice":3.50,
		"stockPrice":448,"daysToExpiry":1,"hoursRemaining":0}`)
	rec := doRequest(h, "POST", "/api/estimate/evaluate", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		OptionValue    float64 `json:"optionValue"`
		HoursRemaining float64 `json:"hoursRemaining"`
	}
	decode(t, rec, &body)
	if body.HoursRemaining != 0 {
		t.Errorf("hoursRemaining = %v, want the requested 0", body.HoursRemaining)
	}
	if body.OptionValue != 0.01 {
		t.Errorf("at-expiry OTM value = %v, want the 0.01 floor", body.OptionValue)
	}

	// ITM at expiry: pure intrinsic.
	payload = []byte(`{"optionType":"CALL","strike":445,"impliedVolatility":25,"observedPrice":3.50,
		"stockPrice":448,"daysToExpiry":1,"hoursRemaining":0}`)
	rec = doRequest(h, "POST", "/api/estimate/evaluate", payload)
	decode(t, rec, &body)
	if body.OptionValue != 3.0 {
		t.Errorf("at-expiry ITM value = %v, want intrinsic 3.00", body.OptionValue)
	}

	// Negative hours are rejected.
	payload = []byte(`{"optionType":"CALL","strike":450,"impliedVolatility":25,"observedPrice":3.50,
		"stockPrice":448,"daysToExpiry":1,"hoursRemaining":-1}`)
	rec = doRequest(h, "POST", "/api/estimate/evaluate", payload)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative hoursRemaining status = %d, want 400", rec.Code)
	}
}

func TestEstimatePriceSweepEndpoint(t *testing.T) {
	h := newTestHandler(t, testProvider())
	payload := []byte(`{"optionType":"CALL","strike":450,"impliedVolatility":25,"observedPrice":3.50,
		"stockPrice":448,"dayHigh":451,"dayLow":446,"daysToExpiry":1}`)
	rec := doRequest(h, "POST", "/api/estimate/price-sweep", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Points []struct {
			StockPrice float64 `json:"stockPrice"`
			Profit     float64 `json:"profit"`
		} `json:"points"`
	}
	decode(t, rec, &body)
	if len(body.Points) != 50 {
		t.Fatalf("points = %d, want 50", len(body.Points))
	}
	for i := 1; i < len(body.Points); i++ {
		if body.Points[i].StockPrice <= body.Points[i-1].StockPrice {
			t.Fatal("sweep grid not ascending")
		}
	}
}

func TestEstimateMatrixEndpoint(t *testing.T) {
	h := newTestHandler(t, testProvider())
	payload := []byte(`{"optionType":"CALL","strike":450,"impliedVolatility":25,"observedPrice":3.50,
		"stockPrice":448,"daysToExpiry":1,"rows":5,"cols":4}`)
	rec := doRequest(h, "POST", "/api/estimate/matrix", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Prices    []float64   `json:"prices"`
		Hours     []float64   `json:"hours"`
		ProfitPct [][]float64 `json:"profitPct"`
	}
	decode(t, rec, &body)
	if len(body.Prices) != 5 || len(body.Hours) != 4 || len(body.ProfitPct) != 5 {
		t.Errorf("matrix shape: %d prices, %d hours, %d rows", len(body.Prices), len(body.Hours), len(body.ProfitPct))
	}
}

func TestEstimateROICurvesEndpoint(t *testing.T) {
	h := newTestHandler(t, testProvider())
	payload := []byte(`{"optionType":"CALL","strike":450,"impliedVolatility":25,"observedPrice":3.50,
		"stockPrice":448,"daysToExpiry":1}`)
	rec := doRequest(h, "POST", "/api/estimate/roi-curves", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Curves []struct {
			Label   string  `json:"label"`
			Percent float64 `json:"percent"`
		} `json:"curves"`
	}
	decode(t, rec, &body)
	if len(body.Curves) != 7 {
		t.Fatalf("curves = %d, want 7 default targets", len(body.Curves))
	}
	if body.Curves[3].Label != "breakeven" {
		t.Errorf("curve 3 label = %q, want breakeven", body.Curves[3].Label)
	}
}

func TestWatchlistTickerLifecycle(t *testing.T) {
	h := newTestHandler(t, testProvider())

	rec := doRequest(h, "POST", "/api/watchlist/tickers", []byte(`{"symbol":"zzzz","category":"Test"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, "POST", "/api/watchlist/tickers", []byte(`{"symbol":"ZZZZ"}`))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate add status = %d, want 409", rec.Code)
	}

	rec = doRequest(h, "PUT", "/api/watchlist/tickers/ZZZZ/levels", []byte(`{"supportPrice":10.5,"resistancePrice":12.0}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("levels update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, "GET", "/api/watchlist/tickers/ZZZZ/levels", nil)
	var levels struct {
		SupportPrice *float64 `json:"supportPrice"`
	}
	decode(t, rec, &levels)
	if levels.SupportPrice == nil || *levels.SupportPrice != 10.5 {
		t.Errorf("levels = %s", rec.Body.String())
	}

	rec = doRequest(h, "DELETE", "/api/watchlist/tickers/ZZZZ", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doRequest(h, "DELETE", "/api/watchlist/tickers/ZZZZ", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", rec.Code)
	}
}

func TestWatchlistOptionLifecycle(t *testing.T) {
	h := newTestHandler(t, testProvider())

	payload := []byte(`{"contractSymbol":"SPY990115C00450000","ticker":"SPY","strike":450,
		"expiry":"2099-01-15","optionType":"CALL","notes":"test"}`)
	rec := doRequest(h, "POST", "/api/watchlist/options", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, "GET", "/api/watchlist/options/SPY990115C00450000/status", nil)
	var status struct {
		InWatchlist bool `json:"inWatchlist"`
	}
	decode(t, rec, &status)
	if !status.InWatchlist {
		t.Error("contract not reported as tracked")
	}

	rec = doRequest(h, "GET", "/api/watchlist/options", nil)
	var list struct {
		Count int `json:"count"`
	}
	decode(t, rec, &list)
	if list.Count != 1 {
		t.Errorf("count = %d, want 1", list.Count)
	}

	rec = doRequest(h, "DELETE", "/api/watchlist/options/SPY990115C00450000", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestOptionHistoryUnconfigured(t *testing.T) {
	h := newTestHandler(t, testProvider())
	rec := doRequest(h, "GET", "/api/option-history/SPY990115C00450000", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 without credentials", rec.Code)
	}
}
