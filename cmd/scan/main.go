// One-shot market scan from the command line: runs the same scan the
// dashboard serves and prints the board as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/dmaas/scalpdeck/internal/config"
	"github.com/dmaas/scalpdeck/internal/logger"
	"github.com/dmaas/scalpdeck/internal/providers/yahoo"
	"github.com/dmaas/scalpdeck/internal/scanner"
	"github.com/dmaas/scalpdeck/internal/watchlist"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	ticker := flag.String("ticker", "", "scan a single ticker instead of the whole watchlist")
	topN := flag.Int("top", 10, "contracts per side")
	flag.Parse()

	cfg := config.Load()
	if err := logger.Init("warn", ""); err != nil {
		log.Fatalf("initializing logging: %v", err)
	}

	store, err := watchlist.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening watchlist db: %v", err)
	}
	defer store.Close()

	timeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
	provider := yahoo.New(cfg.Provider.YahooBaseURL, timeout)
	sc := scanner.New(provider, store, scanner.Options{
		Workers:      cfg.Scan.Workers,
		TopPerTicker: cfg.Scan.TopPerTicker,
		TopOverall:   cfg.Scan.TopOverall,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var result interface{}
	if *ticker != "" {
		result, err = sc.TopVolume(ctx, *ticker, *topN)
	} else {
		result, err = sc.ScanMarket(ctx)
	}
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("encoding result: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
}
