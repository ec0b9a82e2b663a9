package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashRecord represents one entry in the cash-on-hand ledger. The current
// cash balance is the most recent record by timestamp.
type CashRecord struct {
	ID        int             `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}
