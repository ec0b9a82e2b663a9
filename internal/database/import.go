package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// legacyAsset mirrors one row of the old JSON asset file
type legacyAsset struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Shares        decimal.Decimal `json:"shares"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	PurchaseDate  string          `json:"purchase_date"`
	Notes         string          `json:"notes"`
}

// The legacy file recorded asset types in Portuguese
var legacyTypes = map[string]models.AssetType{
	"Ação":        models.AssetTypeStock,
	"ETF":         models.AssetTypeETF,
	"Criptomoeda": models.AssetTypeCrypto,
	"Commodity":   models.AssetTypeCommodity,
	"Outro":       models.AssetTypeOther,
}

// ImportLegacyAssets performs the one-time migration of the old JSON asset
// file into the registry. Rows whose symbol is already registered are
// skipped, so the import is safe to re-run. Returns the number of rows
// actually inserted.
func (db *DB) ImportLegacyAssets(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read legacy asset file: %w", err)
	}

	var rows []legacyAsset
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("failed to parse legacy asset file: %w", err)
	}

	imported := 0
	for _, row := range rows {
		assetType, ok := legacyTypes[row.Type]
		if !ok {
			assetType = models.AssetType(row.Type)
			if !assetType.Valid() {
				assetType = models.AssetTypeOther
			}
		}

		purchaseDate, err := time.Parse("2006-01-02", row.PurchaseDate)
		if err != nil {
			return imported, fmt.Errorf("failed to parse purchase date for %s: %w", row.Symbol, err)
		}

		asset := &models.Asset{
			Symbol:        row.Symbol,
			Name:          row.Name,
			Type:          assetType,
			Shares:        row.Shares,
			PurchasePrice: row.PurchasePrice,
			PurchaseDate:  purchaseDate,
			Notes:         row.Notes,
		}

		err = db.CreateAsset(asset)
		if errors.Is(err, models.ErrDuplicateSymbol) {
			continue
		}
		if err != nil {
			return imported, fmt.Errorf("failed to import asset %s: %w", row.Symbol, err)
		}
		imported++
	}

	return imported, nil
}
