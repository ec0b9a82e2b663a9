package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar represents one daily OHLCV bar for a symbol, persisted as
// market-data history
type PriceBar struct {
	ID        int             `json:"id"`
	Symbol    string          `json:"symbol"`
	Date      time.Time       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
	CreatedAt time.Time       `json:"created_at"`
}

// Quote is the valuation-side view of a symbol: last traded price, the
// session's opening price, and the trailing dividend per share. A nil
// LastPrice is the "unavailable" sentinel; a zero price is a real price.
type Quote struct {
	Symbol    string           `json:"symbol"`
	LastPrice *decimal.Decimal `json:"last_price"`
	Open      decimal.Decimal  `json:"open"`
	Dividend  decimal.Decimal  `json:"dividend"`
}

// Available reports whether the quote carries a usable price
func (q Quote) Available() bool {
	return q.LastPrice != nil
}

// UnavailableQuote returns the sentinel quote for a symbol the upstream
// source could not price
func UnavailableQuote(symbol string) Quote {
	return Quote{Symbol: symbol, Dividend: decimal.Zero}
}
