package database

import (
	"fmt"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// CreateFxRate appends a new historical FX rate row
func (db *DB) CreateFxRate(r *models.FxRate) error {
	query := `
		INSERT INTO fx_rates (
			code, codein, name, high, low, var_bid, pct_change, bid, ask, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := db.conn.QueryRow(query,
		r.Code, r.Codein, r.Name, r.High, r.Low, r.VarBid, r.PctChange,
		r.Bid, r.Ask, r.FetchedAt,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to create fx rate: %w", err)
	}
	return nil
}

// GetLatestFxRates returns the most recent rows for a pair, newest first,
// up to limit
func (db *DB) GetLatestFxRates(code, codein string, limit int) ([]*models.FxRate, error) {
	query := `
		SELECT id, code, codein, name, high, low, var_bid, pct_change, bid, ask, fetched_at
		FROM fx_rates
		WHERE code = $1 AND codein = $2
		ORDER BY fetched_at DESC, id DESC
		LIMIT $3
	`
	rows, err := db.conn.Query(query, code, codein, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fx rates: %w", err)
	}
	defer rows.Close()

	var rates []*models.FxRate
	for rows.Next() {
		var r models.FxRate
		err := rows.Scan(
			&r.ID, &r.Code, &r.Codein, &r.Name, &r.High, &r.Low,
			&r.VarBid, &r.PctChange, &r.Bid, &r.Ask, &r.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fx rate: %w", err)
		}
		rates = append(rates, &r)
	}

	return rates, rows.Err()
}

// GetFxRateHistory returns all historical rows for a pair, newest first
func (db *DB) GetFxRateHistory(code, codein string) ([]*models.FxRate, error) {
	query := `
		SELECT id, code, codein, name, high, low, var_bid, pct_change, bid, ask, fetched_at
		FROM fx_rates
		WHERE code = $1 AND codein = $2
		ORDER BY fetched_at DESC, id DESC
	`
	rows, err := db.conn.Query(query, code, codein)
	if err != nil {
		return nil, fmt.Errorf("failed to query fx rate history: %w", err)
	}
	defer rows.Close()

	var rates []*models.FxRate
	for rows.Next() {
		var r models.FxRate
		err := rows.Scan(
			&r.ID, &r.Code, &r.Codein, &r.Name, &r.High, &r.Low,
			&r.VarBid, &r.PctChange, &r.Bid, &r.Ask, &r.FetchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fx rate: %w", err)
		}
		rates = append(rates, &r)
	}

	return rates, rows.Err()
}
