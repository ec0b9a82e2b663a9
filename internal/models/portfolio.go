package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetValuation is the per-asset output of a valuation pass
type AssetValuation struct {
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Type            AssetType       `json:"type"`
	Shares          decimal.Decimal `json:"shares"`
	LastPrice       decimal.Decimal `json:"last_price"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	MarketValue     decimal.Decimal `json:"market_value"`
	Dividend        decimal.Decimal `json:"dividend"`
	DayGainAmount   decimal.Decimal `json:"day_gain_amount"`
	DayGainPct      decimal.Decimal `json:"day_gain_pct"`
	TotalGainAmount decimal.Decimal `json:"total_gain_amount"`
	TotalGainPct    decimal.Decimal `json:"total_gain_pct"`
	PurchaseDate    time.Time       `json:"purchase_date"`
}

// PortfolioSnapshot is the complete, internally consistent set of valuation,
// cash and FX figures produced by one refresh iteration. Snapshots are
// immutable once published.
type PortfolioSnapshot struct {
	ID             uuid.UUID        `json:"id"`
	Version        uint64           `json:"version"`
	GeneratedAt    time.Time        `json:"generated_at"`
	Assets         []AssetValuation `json:"assets"`
	SkippedSymbols []string         `json:"skipped_symbols,omitempty"`
	Cash           decimal.Decimal  `json:"cash"`
	TotalValue     decimal.Decimal  `json:"total_value"`
	TotalCost      decimal.Decimal  `json:"total_cost"`
	TotalGain      decimal.Decimal  `json:"total_gain"`
	TotalGainPct   decimal.Decimal  `json:"total_gain_pct"`
	AssetCount     int              `json:"asset_count"`
	FxPair         string           `json:"fx_pair,omitempty"`
	FxBid          decimal.Decimal  `json:"fx_bid"`
	FxVariation    decimal.Decimal  `json:"fx_variation"`
}
