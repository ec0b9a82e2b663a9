package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetType categorizes a holding
type AssetType string

const (
	AssetTypeStock     AssetType = "Stock"
	AssetTypeETF       AssetType = "ETF"
	AssetTypeCrypto    AssetType = "Crypto"
	AssetTypeCommodity AssetType = "Commodity"
	AssetTypeOther     AssetType = "Other"
)

// Valid reports whether the asset type is one of the known categories
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeStock, AssetTypeETF, AssetTypeCrypto, AssetTypeCommodity, AssetTypeOther:
		return true
	}
	return false
}

// Asset represents a user-declared holding. Symbol is the unique key and is
// immutable once created.
type Asset struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Type          AssetType       `json:"type"`
	Shares        decimal.Decimal `json:"shares"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Normalize uppercases and trims the symbol
func (a *Asset) Normalize() {
	a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
}

// Validate checks the asset fields, returning ErrInvalidValue on failure
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Symbol) == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidValue)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidValue)
	}
	if !a.Type.Valid() {
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidValue, a.Type)
	}
	if a.Shares.IsNegative() {
		return fmt.Errorf("%w: shares must not be negative", ErrInvalidValue)
	}
	if a.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: purchase price must not be negative", ErrInvalidValue)
	}
	return nil
}
