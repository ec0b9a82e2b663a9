package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FxRate represents one fetched currency quote. Every successful fetch
// appends a new row; the current rate is the most recent by fetched_at.
type FxRate struct {
	ID        int             `json:"id"`
	Code      string          `json:"code"`
	Codein    string          `json:"codein"`
	Name      string          `json:"name"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	VarBid    decimal.Decimal `json:"varBid"`
	PctChange decimal.Decimal `json:"pctChange"`
	Bid       decimal.Decimal `json:"bid"`
	Ask       decimal.Decimal `json:"ask"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Pair returns the currency pair in "USD-BRL" form
func (r *FxRate) Pair() string {
	return r.Code + "-" + r.Codein
}
