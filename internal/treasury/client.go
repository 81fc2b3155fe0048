// Package treasury fetches the current Treasury Bill average interest rate
// from the FiscalData API. The server uses it to seed the estimator's
// risk-free rate at startup instead of hard-coding one.
package treasury

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dmaas/scalpdeck/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultBaseURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service"

// Client fetches the T-Bill rate and remembers the last good value so a flaky
// API never leaves callers without a rate.
type Client struct {
	baseURL string
	http    *http.Client

	mu        sync.Mutex
	lastRate  float64
	fetchedAt time.Time
}

// NewClient builds a client. fallback is the rate served until the first
// successful fetch (the estimator's tuned default belongs here).
func NewClient(baseURL string, timeout time.Duration, fallback float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		lastRate: fallback,
	}
}

type ratesResponse struct {
	Data []struct {
		RecordDate   string `json:"record_date"`
		AvgRateAmt   string `json:"avg_interest_rate_amt"`
		SecurityDesc string `json:"security_desc"`
	} `json:"data"`
}

// RiskFreeRate returns the latest T-Bill average rate as a decimal
// (0.0398 for 3.98%).
func (c *Client) RiskFreeRate(ctx context.Context) (float64, error) {
	url := c.baseURL + "/v2/accounting/od/avg_interest_rates" +
		"?fields=avg_interest_rate_amt,record_date" +
		"&filter=security_desc:eq:Treasury%20Bills&sort=-record_date&page[size]=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching treasury rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("treasury API returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading treasury response: %w", err)
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("decoding treasury response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return 0, fmt.Errorf("treasury API returned no rate data")
	}

	rate, err := strconv.ParseFloat(parsed.Data[0].AvgRateAmt, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing rate %q: %w", parsed.Data[0].AvgRateAmt, err)
	}
	rate /= 100 // percent to decimal

	c.mu.Lock()
	c.lastRate = rate
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	logger.Log.Debugf("treasury bill rate %.4f as of %s", rate, parsed.Data[0].RecordDate)
	return rate, nil
}

// RiskFreeRateOrLast returns a fresh rate when the API cooperates, else the
// last known (or fallback) value.
func (c *Client) RiskFreeRateOrLast(ctx context.Context) float64 {
	rate, err := c.RiskFreeRate(ctx)
	if err == nil {
		return rate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fetchedAt.IsZero() {
		logger.Log.Warnf("treasury fetch failed (%v), using rate from %s ago",
			err, time.Since(c.fetchedAt).Round(time.Minute))
	} else {
		logger.Log.Warnf("treasury fetch failed (%v), using fallback rate %.4f", err, c.lastRate)
	}
	return c.lastRate
}
