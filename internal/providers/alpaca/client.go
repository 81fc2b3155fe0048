// Package alpaca fetches historical option bars from the Alpaca Markets data
// API. The chart view uses these for intraday contract history; everything
// else in the dashboard runs on the primary quote/chain provider.
//
// Rate limit on the basic plan is 200 calls/minute; the client keeps a
// rolling in-process counter and refuses calls past the budget rather than
// hammering the server into 429s.
package alpaca

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dmaas/scalpdeck/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultDataURL    = "https://data.alpaca.markets"
	maxCallsPerMinute = 200
	maxBarsPerRequest = 10000
)

// Candle is one OHLCV bar keyed by epoch seconds. Filled marks synthetic
// flat-top bars inserted to bridge intraday gaps where no contract traded.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
	Filled bool    `json:"filled,omitempty"`
}

// Client talks to the Alpaca options data endpoint.
type Client struct {
	apiKey    string
	secretKey string
	dataURL   string
	http      *http.Client

	mu        sync.Mutex
	callCount int
	lastReset time.Time
}

// NewClient builds a client. Credentials may be empty; calls then fail with a
// descriptive error instead of a vendor 403.
func NewClient(apiKey, secretKey, dataURL string, timeout time.Duration) *Client {
	if dataURL == "" {
		dataURL = DefaultDataURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:    apiKey,
		secretKey: secretKey,
		dataURL:   strings.TrimRight(dataURL, "/"),
		http:      &http.Client{Timeout: timeout},
		lastReset: time.Now(),
	}
}

// Configured reports whether API credentials are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.secretKey != ""
}

// GetOptionBars returns historical bars for an OCC contract symbol (e.g.
// SPY251219C00600000). period picks the lookback window (1h, 4h, 1d, 5d,
// 1mo, 3mo), interval the bar size (1m, 5m, 15m, 1h, 1d). Intraday gaps up
// to four hours are bridged with flat candles so charts render smoothly.
func (c *Client) GetOptionBars(ctx context.Context, contractSymbol, period, interval string) ([]Candle, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("alpaca credentials not configured")
	}
	if err := c.consumeBudget(); err != nil {
		return nil, err
	}

	start := periodStart(period, time.Now())
	timeframe := mapInterval(interval)

	q := url.Values{}
	q.Set("symbols", contractSymbol)
	q.Set("timeframe", timeframe)
	q.Set("start", start.Format("2006-01-02"))
	q.Set("limit", fmt.Sprintf("%d", maxBarsPerRequest))
	// No end date: Alpaca defaults to now without the OPRA restriction.

	endpoint := fmt.Sprintf("%s/v1beta1/options/bars?%s", c.dataURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("APCA-API-KEY-ID", c.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", c.secretKey)
	req.Header.Set("Accept", "application/json")

	logger.Log.Debugf("alpaca bars request: %s %s %s", contractSymbol, timeframe, start.Format("2006-01-02"))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alpaca request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("alpaca rate limited (429)")
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading alpaca response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpaca returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		Bars map[string][]struct {
			Timestamp string  `json:"t"`
			Open      float64 `json:"o"`
			High      float64 `json:"h"`
			Low       float64 `json:"l"`
			Close     float64 `json:"c"`
			Volume    int64   `json:"v"`
		} `json:"bars"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding alpaca response: %w", err)
	}

	bars, ok := parsed.Bars[contractSymbol]
	if !ok {
		bars = parsed.Bars[strings.ToUpper(contractSymbol)]
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars for %s", contractSymbol)
	}

	candles := make([]Candle, 0, len(bars))
	for _, b := range bars {
		t, err := time.Parse(time.RFC3339, b.Timestamp)
		if err != nil {
			continue
		}
		candles = append(candles, Candle{
			Time:   t.Unix(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time < candles[j].Time })

	return fillGaps(candles, timeframe), nil
}

// consumeBudget enforces the per-minute call budget.
func (c *Client) consumeBudget() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastReset) >= time.Minute {
		c.callCount = 0
		c.lastReset = now
	}
	if c.callCount >= maxCallsPerMinute {
		return fmt.Errorf("alpaca rate budget exhausted (%d calls/min)", maxCallsPerMinute)
	}
	c.callCount++
	return nil
}

// fillGaps bridges intraday holes (no trades) with flat candles at the last
// close. Gaps of four hours or more are treated as a closed market and left
// alone.
func fillGaps(candles []Candle, timeframe string) []Candle {
	if len(candles) == 0 {
		return candles
	}

	intervalSec := int64(60)
	switch timeframe {
	case "5Min":
		intervalSec = 300
	case "15Min":
		intervalSec = 900
	case "30Min":
		intervalSec = 1800
	case "1Hour":
		intervalSec = 3600
	case "1Day", "1Week", "1Month":
		return candles // daily and up: gaps are sessions, not missing trades
	}

	const marketClosedGap = 14400 // 4 hours

	filled := make([]Candle, 0, len(candles))
	for i, cur := range candles {
		filled = append(filled, cur)
		if i == len(candles)-1 {
			break
		}

		gap := candles[i+1].Time - cur.Time
		if gap > intervalSec*3/2 && gap < marketClosedGap {
			n := gap/intervalSec - 1
			for j := int64(1); j <= n; j++ {
				filled = append(filled, Candle{
					Time:   cur.Time + j*intervalSec,
					Open:   cur.Close,
					High:   cur.Close,
					Low:    cur.Close,
					Close:  cur.Close,
					Filled: true,
				})
			}
		}
	}
	return filled
}

// periodStart maps a lookback period name to its start time.
func periodStart(period string, now time.Time) time.Time {
	spans := map[string]time.Duration{
		"1h":  time.Hour,
		"4h":  4 * time.Hour,
		"1d":  24 * time.Hour,
		"5d":  5 * 24 * time.Hour,
		"1mo": 30 * 24 * time.Hour,
		"3mo": 90 * 24 * time.Hour,
	}
	span, ok := spans[period]
	if !ok {
		span = 5 * 24 * time.Hour
	}
	return now.Add(-span)
}

// mapInterval converts a chart interval name to an Alpaca timeframe.
func mapInterval(interval string) string {
	frames := map[string]string{
		"1m":  "1Min",
		"2m":  "2Min",
		"5m":  "5Min",
		"15m": "15Min",
		"30m": "30Min",
		"1h":  "1Hour",
		"60m": "1Hour",
		"1d":  "1Day",
		"1wk": "1Week",
		"1mo": "1Month",
	}
	if tf, ok := frames[interval]; ok {
		return tf
	}
	return "1Day"
}
