package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// UpsertPriceBar inserts a daily bar, replacing any existing row for the
// same symbol and date
func (db *DB) UpsertPriceBar(p *models.PriceBar) error {
	query := `
		INSERT INTO price_data_daily (symbol, date, open, high, low, close, volume, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
		RETURNING id
	`
	err := db.conn.QueryRow(query,
		p.Symbol, p.Date, p.Open, p.High, p.Low, p.Close, p.Volume, time.Now(),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert price bar: %w", err)
	}
	return nil
}

// GetLatestPriceBar retrieves the most recent bar for a symbol
func (db *DB) GetLatestPriceBar(symbol string) (*models.PriceBar, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume, created_at
		FROM price_data_daily
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT 1
	`
	var p models.PriceBar
	err := db.conn.QueryRow(query, symbol).Scan(
		&p.ID, &p.Symbol, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no price data for %s", models.ErrNotFound, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest price bar: %w", err)
	}
	return &p, nil
}

// GetPriceBars retrieves bars for a symbol ordered by date descending,
// up to limit
func (db *DB) GetPriceBars(symbol string, limit int) ([]*models.PriceBar, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume, created_at
		FROM price_data_daily
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT $2
	`
	return db.scanPriceBars(db.conn.Query(query, symbol, limit))
}

// GetPriceBarRange retrieves bars for a symbol within a date range,
// oldest first
func (db *DB) GetPriceBarRange(symbol string, startDate, endDate time.Time) ([]*models.PriceBar, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume, created_at
		FROM price_data_daily
		WHERE symbol = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	return db.scanPriceBars(db.conn.Query(query, symbol, startDate, endDate))
}

func (db *DB) scanPriceBars(rows *sql.Rows, err error) ([]*models.PriceBar, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query price bars: %w", err)
	}
	defer rows.Close()

	var bars []*models.PriceBar
	for rows.Next() {
		var p models.PriceBar
		err := rows.Scan(
			&p.ID, &p.Symbol, &p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price bar: %w", err)
		}
		bars = append(bars, &p)
	}

	return bars, rows.Err()
}

// DeletePriceBarsOlderThan removes bars older than the given date and
// returns how many were deleted
func (db *DB) DeletePriceBarsOlderThan(date time.Time) (int64, error) {
	result, err := db.conn.Exec(`DELETE FROM price_data_daily WHERE date < $1`, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old price bars: %w", err)
	}
	return result.RowsAffected()
}
