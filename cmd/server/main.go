package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmaas/scalpdeck/internal/config"
	"github.com/dmaas/scalpdeck/internal/estimator"
	"github.com/dmaas/scalpdeck/internal/handlers"
	"github.com/dmaas/scalpdeck/internal/logger"
	"github.com/dmaas/scalpdeck/internal/providers/alpaca"
	"github.com/dmaas/scalpdeck/internal/providers/yahoo"
	"github.com/dmaas/scalpdeck/internal/scanner"
	"github.com/dmaas/scalpdeck/internal/search"
	"github.com/dmaas/scalpdeck/internal/treasury"
	"github.com/dmaas/scalpdeck/internal/watchlist"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		log.Fatalf("initializing logging: %v", err)
	}
	logger.Log.Infof("scalpdeck starting on port %s", cfg.Port)

	// Current T-Bill rate, with the tuned default as fallback.
	rates := treasury.NewClient("", 10*time.Second, cfg.Tuning.RiskFreeRate)
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	cfg.Tuning.RiskFreeRate = rates.RiskFreeRateOrLast(startupCtx)
	cancelStartup()
	logger.Log.Infof("risk-free rate: %.4f", cfg.Tuning.RiskFreeRate)

	store, err := watchlist.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening watchlist db: %v", err)
	}
	defer store.Close()

	timeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
	provider := yahoo.New(cfg.Provider.YahooBaseURL, timeout)

	var history *alpaca.Client
	if cfg.Provider.AlpacaAPIKey != "" && cfg.Provider.AlpacaSecretKey != "" {
		history = alpaca.NewClient(cfg.Provider.AlpacaAPIKey, cfg.Provider.AlpacaSecretKey,
			cfg.Provider.AlpacaDataURL, timeout)
		logger.Log.Info("option history enabled (alpaca)")
	} else {
		logger.Log.Info("option history disabled: no alpaca credentials")
	}

	est := estimator.New(cfg.Tuning)

	sc := scanner.NewCached(
		scanner.New(provider, store, scanner.Options{
			Workers:      cfg.Scan.Workers,
			TopPerTicker: cfg.Scan.TopPerTicker,
			TopOverall:   cfg.Scan.TopOverall,
		}),
		time.Duration(cfg.Scan.CacheTTLSeconds)*time.Second,
	)
	if cfg.Scan.RefreshCron != "" {
		if err := sc.StartRefresh(cfg.Scan.RefreshCron); err != nil {
			log.Fatalf("invalid scan refresh schedule %q: %v", cfg.Scan.RefreshCron, err)
		}
		defer sc.StopRefresh()
	}

	se := search.New(provider, est.Model())

	h := handlers.New(provider, sc, se, est, store, history)
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      h.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // a cold market scan can take a while
	}

	go func() {
		logger.Log.Infof("http server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("shutdown: %v", err)
	}
}
