package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmaas/scalpdeck/internal/logger"
	"github.com/dmaas/scalpdeck/internal/models"
)

// CachedScanner wraps a Scanner with a TTL cache over the full market scan,
// optionally kept warm by a cron schedule. A market scan fans out over the
// whole universe, so the dashboard polls the cache instead of re-scanning.
type CachedScanner struct {
	*Scanner
	ttl time.Duration

	mu        sync.RWMutex
	lastScan  *models.ScanResult
	fetchedAt time.Time

	cron *cron.Cron
}

// NewCached wraps a scanner with a result cache. ttl <= 0 disables caching.
func NewCached(s *Scanner, ttl time.Duration) *CachedScanner {
	return &CachedScanner{Scanner: s, ttl: ttl}
}

// ScanMarket returns the cached scan when fresh, otherwise runs a new one and
// stores it. Concurrent callers during a refresh each run their own scan; the
// last one wins, which is harmless for idempotent reads.
func (c *CachedScanner) ScanMarket(ctx context.Context) (*models.ScanResult, error) {
	if cached := c.cached(); cached != nil {
		return cached, nil
	}

	result, err := c.Scanner.ScanMarket(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lastScan = result
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return result, nil
}

func (c *CachedScanner) cached() *models.ScanResult {
	if c.ttl <= 0 {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastScan == nil || time.Since(c.fetchedAt) > c.ttl {
		return nil
	}
	return c.lastScan
}

// Invalidate drops the cached scan; the next call re-scans.
func (c *CachedScanner) Invalidate() {
	c.mu.Lock()
	c.lastScan = nil
	c.mu.Unlock()
}

// StartRefresh keeps the cache warm on a cron schedule (with seconds field,
// e.g. "0 */5 9-16 * * 1-5" for every 5 minutes during market hours). Call
// StopRefresh on shutdown.
func (c *CachedScanner) StartRefresh(schedule string) error {
	cr := cron.New(cron.WithSeconds())
	_, err := cr.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := c.Scanner.ScanMarket(ctx)
		if err != nil {
			logger.Log.Warnf("scheduled scan failed: %v", err)
			return
		}
		c.mu.Lock()
		c.lastScan = result
		c.fetchedAt = time.Now()
		c.mu.Unlock()
	})
	if err != nil {
		return err
	}
	cr.Start()
	c.cron = cr
	logger.Log.Infof("scan refresh scheduled: %s", schedule)
	return nil
}

// StopRefresh stops the background refresh, waiting for a running scan.
func (c *CachedScanner) StopRefresh() {
	if c.cron != nil {
		<-c.cron.Stop().Done()
	}
}
