package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/dmaas/scalpdeck/internal/estimator"
	"github.com/dmaas/scalpdeck/internal/logger"
)

// LoggingConfig controls the shared logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ProviderConfig holds market-data provider settings. The Yahoo endpoints
// are unauthenticated; Alpaca credentials are only needed for the option
// history endpoint.
type ProviderConfig struct {
	YahooBaseURL    string `yaml:"yahoo_base_url"`
	AlpacaAPIKey    string `yaml:"alpaca_api_key"`
	AlpacaSecretKey string `yaml:"alpaca_secret_key"`
	AlpacaDataURL   string `yaml:"alpaca_data_url"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// ScanConfig controls the market scanner.
type ScanConfig struct {
	Workers         int    `yaml:"workers"`           // parallel ticker fetches
	TopPerTicker    int    `yaml:"top_per_ticker"`    // contracts kept per ticker per side
	TopOverall      int    `yaml:"top_overall"`       // contracts returned per side after merge
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"` // scan result cache
	RefreshCron     string `yaml:"refresh_cron"`      // cron spec (with seconds); empty disables
}

// DatabaseConfig locates the watchlist store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Config is the full application configuration: defaults, overridden by
// config.yaml when present, overridden by environment variables.
type Config struct {
	Port     string           `yaml:"port"`
	Logging  LoggingConfig    `yaml:"logging"`
	Provider ProviderConfig   `yaml:"provider"`
	Scan     ScanConfig       `yaml:"scan"`
	Database DatabaseConfig   `yaml:"database"`
	Tuning   estimator.Tuning `yaml:"tuning"`
}

// Load builds the configuration. Missing or unparseable config.yaml is not an
// error: defaults plus environment variables apply.
func Load() *Config {
	return LoadFile("config.yaml")
}

// LoadFile is Load with an explicit YAML path (tests point it at fixtures).
func LoadFile(path string) *Config {
	cfg := defaults()

	if data, err := os.ReadFile(path); err == nil {
		// Unmarshal over the defaults so absent keys keep them. A file that
		// exists but does not parse was meant to apply, so say so instead of
		// silently running on defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			logger.Log.Warnf("ignoring malformed config %s: %v", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.File = getEnv("LOG_FILE", cfg.Logging.File)
	cfg.Provider.AlpacaAPIKey = getEnv("ALPACA_API_KEY", cfg.Provider.AlpacaAPIKey)
	cfg.Provider.AlpacaSecretKey = getEnv("ALPACA_API_SECRET", cfg.Provider.AlpacaSecretKey)
	cfg.Provider.AlpacaDataURL = getEnv("ALPACA_DATA_URL", cfg.Provider.AlpacaDataURL)
	cfg.Database.Path = getEnv("WATCHLIST_DB", cfg.Database.Path)
	cfg.Scan.Workers = getEnvInt("SCAN_WORKERS", cfg.Scan.Workers)

	cfg.sanitize()
	return cfg
}

func defaults() *Config {
	return &Config{
		Port: "8000",
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Provider: ProviderConfig{
			YahooBaseURL:   "https://query2.finance.yahoo.com",
			AlpacaDataURL:  "https://data.alpaca.markets",
			TimeoutSeconds: 30,
		},
		Scan: ScanConfig{
			Workers:         10,
			TopPerTicker:    3,
			TopOverall:      50,
			CacheTTLSeconds: 60,
			RefreshCron:     "", // on-demand only unless configured
		},
		Database: DatabaseConfig{
			Path: "data/watchlist.db",
		},
		Tuning: estimator.DefaultTuning(),
	}
}

func (c *Config) sanitize() {
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = 10
	}
	if c.Scan.TopPerTicker <= 0 {
		c.Scan.TopPerTicker = 3
	}
	if c.Scan.TopOverall <= 0 {
		c.Scan.TopOverall = 50
	}
	if c.Scan.CacheTTLSeconds <= 0 {
		c.Scan.CacheTTLSeconds = 60
	}
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = 30
	}
	if c.Tuning.SolverMaxBisections <= 0 {
		c.Tuning = estimator.DefaultTuning()
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
