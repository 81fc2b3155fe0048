// Package watchlist persists the scanner ticker universe and tracked option
// contracts in SQLite. A fresh database is seeded with the default universe so
// the scanner works out of the box.
package watchlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dmaas/scalpdeck/internal/logger"
)

// TickerEntry is one symbol in the scanner universe. Support and resistance
// are user-maintained chart levels; nil means not set.
type TickerEntry struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Symbol     string    `gorm:"uniqueIndex;not null" json:"symbol"`
	Category   string    `gorm:"default:Other" json:"category"`
	Support    *float64  `json:"supportPrice"`
	Resistance *float64  `json:"resistancePrice"`
	AddedAt    time.Time `gorm:"autoCreateTime" json:"addedAt"`
}

func (TickerEntry) TableName() string { return "ticker_watchlist" }

// OptionEntry is one tracked option contract.
type OptionEntry struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	ContractSymbol string    `gorm:"uniqueIndex;not null" json:"contractSymbol"`
	Ticker         string    `gorm:"not null" json:"ticker"`
	Strike         float64   `gorm:"not null" json:"strike"`
	Expiry         string    `gorm:"not null" json:"expiry"`
	OptionType     string    `gorm:"not null" json:"optionType"`
	Notes          string    `gorm:"default:''" json:"notes"`
	AddedAt        time.Time `gorm:"autoCreateTime" json:"addedAt"`
}

func (OptionEntry) TableName() string { return "option_watchlist" }

// Store wraps the watchlist database.
type Store struct {
	db *gorm.DB
}

// Open creates or opens the SQLite database at path, migrates the schema, and
// seeds the ticker table with the default universe when it is empty.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening watchlist db: %w", err)
	}
	if err := db.AutoMigrate(&TickerEntry{}, &OptionEntry{}); err != nil {
		return nil, fmt.Errorf("migrating watchlist schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.seedIfEmpty(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) seedIfEmpty() error {
	var count int64
	if err := s.db.Model(&TickerEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	entries := make([]TickerEntry, 0, len(defaultUniverse))
	for _, d := range defaultUniverse {
		entries = append(entries, TickerEntry{Symbol: d.symbol, Category: d.category})
	}
	if err := s.db.CreateInBatches(entries, 100).Error; err != nil {
		return fmt.Errorf("seeding ticker watchlist: %w", err)
	}
	logger.Log.Infof("seeded ticker watchlist with %d default tickers", len(entries))
	return nil
}

// Tickers returns all watchlist entries ordered by symbol.
func (s *Store) Tickers() ([]TickerEntry, error) {
	var out []TickerEntry
	err := s.db.Order("symbol").Find(&out).Error
	return out, err
}

// ScannerSymbols returns just the symbols, for the market scanner.
func (s *Store) ScannerSymbols() ([]string, error) {
	var out []string
	err := s.db.Model(&TickerEntry{}).Order("symbol").Pluck("symbol", &out).Error
	return out, err
}

// AddTicker inserts a symbol. Duplicate symbols are an error.
func (s *Store) AddTicker(symbol, category string) (*TickerEntry, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}
	if category == "" {
		category = "Other"
	}
	entry := TickerEntry{Symbol: symbol, Category: category}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("%s already in watchlist", symbol)
	}
	return &entry, nil
}

// RemoveTicker deletes a symbol from the watchlist.
func (s *Store) RemoveTicker(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	res := s.db.Where("symbol = ?", symbol).Delete(&TickerEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s not found in watchlist", symbol)
	}
	return nil
}

// UpdateLevels sets the support/resistance levels for a symbol. A nil value
// clears the level.
func (s *Store) UpdateLevels(symbol string, support, resistance *float64) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	res := s.db.Model(&TickerEntry{}).Where("symbol = ?", symbol).
		Updates(map[string]interface{}{"support": support, "resistance": resistance})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s not found in watchlist", symbol)
	}
	return nil
}

// Levels returns the stored support/resistance for a symbol. Unknown symbols
// return nil levels rather than an error.
func (s *Store) Levels(symbol string) (support, resistance *float64, err error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var entry TickerEntry
	res := s.db.Where("symbol = ?", symbol).First(&entry)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, nil, nil
		}
		return nil, nil, res.Error
	}
	return entry.Support, entry.Resistance, nil
}

// Options returns all tracked option contracts, newest first.
func (s *Store) Options() ([]OptionEntry, error) {
	var out []OptionEntry
	err := s.db.Order("added_at desc").Find(&out).Error
	return out, err
}

// AddOption tracks a contract. Duplicate contract symbols are an error.
func (s *Store) AddOption(contractSymbol, ticker string, strike float64, expiry, optionType, notes string) (*OptionEntry, error) {
	if contractSymbol == "" {
		return nil, fmt.Errorf("empty contract symbol")
	}
	entry := OptionEntry{
		ContractSymbol: contractSymbol,
		Ticker:         strings.ToUpper(strings.TrimSpace(ticker)),
		Strike:         strike,
		Expiry:         expiry,
		OptionType:     strings.ToUpper(optionType),
		Notes:          notes,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("%s already in watchlist", contractSymbol)
	}
	return &entry, nil
}

// RemoveOption stops tracking a contract.
func (s *Store) RemoveOption(contractSymbol string) error {
	res := s.db.Where("contract_symbol = ?", contractSymbol).Delete(&OptionEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s not found in watchlist", contractSymbol)
	}
	return nil
}

// HasOption reports whether a contract is tracked.
func (s *Store) HasOption(contractSymbol string) (bool, error) {
	var count int64
	err := s.db.Model(&OptionEntry{}).Where("contract_symbol = ?", contractSymbol).Count(&count).Error
	return count > 0, err
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
