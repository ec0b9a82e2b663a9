package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaks
const uniqueViolation = "23505"

// CreateAsset adds a new asset to the registry. It fails with
// models.ErrDuplicateSymbol when the symbol is already registered.
func (db *DB) CreateAsset(a *models.Asset) error {
	a.Normalize()
	if err := a.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO assets (
			symbol, name, type, shares, purchase_price, purchase_date,
			notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now()

	_, err := db.conn.Exec(query,
		a.Symbol, a.Name, a.Type, a.Shares, a.PurchasePrice, a.PurchaseDate,
		a.Notes, now, now,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", models.ErrDuplicateSymbol, a.Symbol)
		}
		return fmt.Errorf("failed to create asset: %w", err)
	}

	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

// UpdateAsset replaces the mutable fields of an existing asset. The symbol
// itself is immutable; renames are not supported.
func (db *DB) UpdateAsset(symbol string, a *models.Asset) error {
	a.Symbol = symbol
	a.Normalize()
	if err := a.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE assets SET
			name = $2, type = $3, shares = $4, purchase_price = $5,
			purchase_date = $6, notes = $7, updated_at = $8
		WHERE symbol = $1
	`
	a.UpdatedAt = time.Now()
	result, err := db.conn.Exec(query,
		a.Symbol, a.Name, a.Type, a.Shares, a.PurchasePrice,
		a.PurchaseDate, a.Notes, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: asset %s", models.ErrNotFound, a.Symbol)
	}
	return nil
}

// GetAsset retrieves an asset by symbol
func (db *DB) GetAsset(symbol string) (*models.Asset, error) {
	query := `
		SELECT symbol, name, type, shares, purchase_price, purchase_date,
		       notes, created_at, updated_at
		FROM assets
		WHERE symbol = $1
	`
	var a models.Asset
	var notes sql.NullString

	err := db.conn.QueryRow(query, symbol).Scan(
		&a.Symbol, &a.Name, &a.Type, &a.Shares, &a.PurchasePrice, &a.PurchaseDate,
		&notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: asset %s", models.ErrNotFound, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	if notes.Valid {
		a.Notes = notes.String
	}
	return &a, nil
}

// GetAllAssets retrieves all registered assets ordered by symbol
func (db *DB) GetAllAssets() ([]*models.Asset, error) {
	query := `
		SELECT symbol, name, type, shares, purchase_price, purchase_date,
		       notes, created_at, updated_at
		FROM assets
		ORDER BY symbol ASC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []*models.Asset
	for rows.Next() {
		var a models.Asset
		var notes sql.NullString

		err := rows.Scan(
			&a.Symbol, &a.Name, &a.Type, &a.Shares, &a.PurchasePrice, &a.PurchaseDate,
			&notes, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}

		if notes.Valid {
			a.Notes = notes.String
		}
		assets = append(assets, &a)
	}

	return assets, rows.Err()
}

// GetAssetSymbols returns just the symbols of all registered assets
func (db *DB) GetAssetSymbols() ([]string, error) {
	query := `SELECT symbol FROM assets ORDER BY symbol ASC`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get asset symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

// DeleteAsset removes an asset from the registry
func (db *DB) DeleteAsset(symbol string) error {
	query := `DELETE FROM assets WHERE symbol = $1`
	result, err := db.conn.Exec(query, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: asset %s", models.ErrNotFound, symbol)
	}
	return nil
}

// ClearAssets removes all assets unconditionally. Idempotent.
func (db *DB) ClearAssets() error {
	if _, err := db.conn.Exec(`DELETE FROM assets`); err != nil {
		return fmt.Errorf("failed to clear assets: %w", err)
	}
	return nil
}
