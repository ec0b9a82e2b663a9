// Package valuation joins the asset registry, quote cache and cash ledger
// into consolidated portfolio snapshots.
package valuation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cybersoul/portfolio-service/internal/models"
)

var hundred = decimal.NewFromInt(100)

// AssetRepository provides the registered holdings
type AssetRepository interface {
	GetAllAssets() ([]*models.Asset, error)
}

// CashRepository provides the current cash-on-hand record
type CashRepository interface {
	GetCurrentCash() (*models.CashRecord, error)
}

// QuoteSource provides per-symbol quotes. An unavailable quote must carry a
// nil last price, never a zero one.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (models.Quote, error)
}

// Engine computes portfolio snapshots. Given identical registry and cache
// contents the computation is deterministic and side-effect free; history
// archival happens downstream, once the snapshot carries its final version
// and fx figures.
type Engine struct {
	assets AssetRepository
	cash   CashRepository
	quotes QuoteSource
}

// NewEngine creates a valuation engine
func NewEngine(assets AssetRepository, cash CashRepository, quotes QuoteSource) *Engine {
	return &Engine{assets: assets, cash: cash, quotes: quotes}
}

// ComputePortfolio values every registered asset at its cached quote and
// aggregates the totals together with current cash. Symbols the quote
// source cannot price are skipped from the totals entirely; a single bad
// symbol never aborts the valuation. An empty registry yields a zero-value
// snapshot, not an error.
func (e *Engine) ComputePortfolio(ctx context.Context) (*models.PortfolioSnapshot, error) {
	assets, err := e.assets.GetAllAssets()
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	snapshot := &models.PortfolioSnapshot{
		ID:           uuid.New(),
		GeneratedAt:  time.Now(),
		Cash:         decimal.Zero,
		TotalValue:   decimal.Zero,
		TotalCost:    decimal.Zero,
		TotalGain:    decimal.Zero,
		TotalGainPct: decimal.Zero,
	}

	current, err := e.cash.GetCurrentCash()
	if err != nil {
		return nil, fmt.Errorf("failed to load current cash: %w", err)
	}
	if current != nil {
		snapshot.Cash = current.Amount
	}

	for _, asset := range assets {
		quote, err := e.quotes.GetQuote(ctx, asset.Symbol)
		if err != nil || !quote.Available() {
			if err != nil {
				log.Printf("Skipping %s from valuation: %v", asset.Symbol, err)
			}
			snapshot.SkippedSymbols = append(snapshot.SkippedSymbols, asset.Symbol)
			continue
		}

		v := valueAsset(asset, quote)
		snapshot.Assets = append(snapshot.Assets, v)
		snapshot.TotalValue = snapshot.TotalValue.Add(v.MarketValue)
		snapshot.TotalCost = snapshot.TotalCost.Add(v.TotalCost)
		snapshot.TotalGain = snapshot.TotalGain.Add(v.TotalGainAmount)
	}

	snapshot.AssetCount = len(snapshot.Assets)
	snapshot.TotalValue = snapshot.TotalValue.Add(snapshot.Cash)
	if snapshot.TotalCost.IsPositive() {
		snapshot.TotalGainPct = snapshot.TotalGain.Div(snapshot.TotalCost).Mul(hundred)
	}

	return snapshot, nil
}

// valueAsset computes the per-asset metrics. Day gain uses the session's
// opening price as baseline, total gain the purchase price; both
// percentages are zero when their baseline is zero.
func valueAsset(asset *models.Asset, quote models.Quote) models.AssetValuation {
	last := *quote.LastPrice

	v := models.AssetValuation{
		Symbol:        asset.Symbol,
		Name:          asset.Name,
		Type:          asset.Type,
		Shares:        asset.Shares,
		LastPrice:     last,
		PurchasePrice: asset.PurchasePrice,
		PurchaseDate:  asset.PurchaseDate,
		Dividend:      quote.Dividend,
		TotalCost:     asset.Shares.Mul(asset.PurchasePrice),
		MarketValue:   asset.Shares.Mul(last),
		DayGainPct:    decimal.Zero,
		TotalGainPct:  decimal.Zero,
	}

	v.DayGainAmount = asset.Shares.Mul(last.Sub(quote.Open))
	if !quote.Open.IsZero() {
		v.DayGainPct = last.Sub(quote.Open).Div(quote.Open).Mul(hundred)
	}

	v.TotalGainAmount = v.MarketValue.Sub(v.TotalCost)
	if !asset.PurchasePrice.IsZero() {
		v.TotalGainPct = last.Sub(asset.PurchasePrice).Div(asset.PurchasePrice).Mul(hundred)
	}

	return v
}
