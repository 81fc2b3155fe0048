// Package search ranks option contracts against a price thesis: "the stock
// reaches Target by Date, and I'm wrong if it hits Stop". For every liquid
// contract expiring on or after the target date it projects the option value
// under both scenarios and ranks by reward over risk.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmaas/scalpdeck/internal/estimator"
	"github.com/dmaas/scalpdeck/internal/logger"
	"github.com/dmaas/scalpdeck/internal/models"
	"github.com/dmaas/scalpdeck/internal/providers"
	"github.com/dmaas/scalpdeck/internal/utils"
)

const (
	minVolume       = 1
	minOpenInterest = 1
	maxExpirations  = 4 // near expirations past the target date
	maxResults      = 20
	minLossFloor    = 0.01

	// Residual life when the contract expires on the target date itself.
	minRemainingHours = 1.0
)

// Searcher projects contract values with the estimator model.
type Searcher struct {
	provider providers.MarketProvider
	model    *estimator.Model
	now      func() time.Time
}

// New builds a Searcher.
func New(provider providers.MarketProvider, model *estimator.Model) *Searcher {
	return &Searcher{provider: provider, model: model, now: time.Now}
}

// FindBest ranks contracts for the thesis in req. Validation errors come back
// as errors; an empty (but valid) result carries an explanatory message.
func (s *Searcher) FindBest(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if req.TargetPrice <= 0 {
		return nil, fmt.Errorf("target price must be positive")
	}
	isCall := strings.EqualFold(req.OptionType, "CALL")
	if !isCall && !strings.EqualFold(req.OptionType, "PUT") {
		return nil, fmt.Errorf("option type must be CALL or PUT")
	}

	targetDate, err := time.ParseInLocation("2006-01-02", req.TargetDate, s.now().Location())
	if err != nil {
		return nil, fmt.Errorf("invalid target date %q", req.TargetDate)
	}
	daysToTarget := utils.DaysToExpiry(req.TargetDate, s.now())

	quote, chain, err := s.fetchQuoteAndChain(ctx, ticker, "")
	if err != nil {
		return nil, err
	}
	spot := quote.Price
	if spot <= 0 {
		return nil, fmt.Errorf("could not fetch current stock price for %s", ticker)
	}
	if len(chain.Expirations) == 0 {
		return nil, fmt.Errorf("no options available for %s", ticker)
	}

	valid := validExpirations(chain.Expirations, targetDate)
	if len(valid) == 0 {
		return &models.SearchResult{
			Options: []models.SearchCandidate{},
			Message: fmt.Sprintf("No expirations found on or after %s. Try an earlier date.", req.TargetDate),
		}, nil
	}

	var candidates []models.SearchCandidate
	for _, expiry := range valid {
		rows, err := s.chainSide(ctx, ticker, expiry, isCall)
		if err != nil {
			logger.Log.Warnf("search: skipping expiry %s for %s: %v", expiry, ticker, err)
			continue
		}

		daysToExpiry := utils.DaysToExpiry(expiry, s.now())
		remainingHours := float64(daysToExpiry-daysToTarget) * utils.TradingHoursPerDay
		if remainingHours < minRemainingHours {
			remainingHours = minRemainingHours
		}

		for _, row := range rows {
			if !liquid(row) || !strikeInWindow(row.Strike, isCall, spot, req.TargetPrice) {
				continue
			}

			// Buying: the ask is what entry actually costs.
			entry := row.Ask
			if entry <= 0 {
				entry = row.LastPrice
			}
			if entry <= 0 || row.ImpliedVolatility <= 0 {
				continue
			}

			reward := s.model.Value(isCall, row.Strike, req.TargetPrice, remainingHours, row.ImpliedVolatility) - entry

			// Risk at the target date, not at entry: held to the date with the
			// stock at the stop, time decay is fully paid.
			loss := entry - s.model.Value(isCall, row.Strike, req.StopLoss, remainingHours, row.ImpliedVolatility)
			if loss <= 0 {
				loss = minLossFloor
			}

			candidates = append(candidates, models.SearchCandidate{
				Expiry:          expiry,
				DaysToExpiry:    daysToExpiry,
				Strike:          row.Strike,
				ContractSymbol:  row.ContractSymbol,
				EntryCost:       entry,
				ProjectedReward: models.Round2(reward),
				ProjectedRisk:   models.Round2(-loss),
				RiskRewardRatio: models.Round2(reward / loss),
				Type:            strings.ToUpper(req.OptionType),
				ImpliedVol:      row.ImpliedVolatility,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RiskRewardRatio > candidates[j].RiskRewardRatio
	})
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	if candidates == nil {
		candidates = []models.SearchCandidate{}
	}
	return &models.SearchResult{Options: candidates}, nil
}

// validExpirations keeps the first maxExpirations dates on or after target.
func validExpirations(expirations []string, target time.Time) []string {
	var out []string
	for _, exp := range expirations {
		d, err := time.ParseInLocation("2006-01-02", exp, target.Location())
		if err != nil {
			continue
		}
		if !d.Before(target) {
			out = append(out, exp)
			if len(out) >= maxExpirations {
				break
			}
		}
	}
	return out
}

func liquid(row providers.ChainOption) bool {
	return row.Volume >= minVolume || row.OpenInterest >= minOpenInterest
}

// strikeInWindow drops far-fetched strikes before pricing. Calls: strike
// between half of spot and twice the target; puts mirrored.
func strikeInWindow(strike float64, isCall bool, spot, target float64) bool {
	if isCall {
		return strike > spot*0.5 && strike < target*2.0
	}
	return strike > target*0.5 && strike < spot*2.0
}

func (s *Searcher) chainSide(ctx context.Context, ticker, expiry string, isCall bool) ([]providers.ChainOption, error) {
	chain, err := s.provider.GetOptionChain(ctx, ticker, expiry)
	if err != nil {
		return nil, err
	}
	if isCall {
		return chain.Calls, nil
	}
	return chain.Puts, nil
}

func (s *Searcher) fetchQuoteAndChain(ctx context.Context, symbol, expiry string) (*providers.Quote, *providers.Chain, error) {
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
