package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// AppendCashRecord adds a new timestamped record to the cash ledger.
// Append always grows history; use SetCurrentCash to edit the head.
func (db *DB) AppendCashRecord(amount decimal.Decimal) (*models.CashRecord, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: cash amount must not be negative", models.ErrInvalidValue)
	}

	query := `
		INSERT INTO cash_records (amount, recorded_at)
		VALUES ($1, $2)
		RETURNING id
	`
	record := &models.CashRecord{Amount: amount, Timestamp: time.Now()}
	err := db.conn.QueryRow(query, record.Amount, record.Timestamp).Scan(&record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to append cash record: %w", err)
	}
	return record, nil
}

// SetCurrentCash overwrites the most-recent record's amount and timestamp in
// place. When the ledger is empty it inserts the first record instead.
func (db *DB) SetCurrentCash(amount decimal.Decimal) (*models.CashRecord, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: cash amount must not be negative", models.ErrInvalidValue)
	}

	query := `
		UPDATE cash_records SET amount = $1, recorded_at = $2
		WHERE id = (
			SELECT id FROM cash_records
			ORDER BY recorded_at DESC, id DESC
			LIMIT 1
		)
		RETURNING id
	`
	record := &models.CashRecord{Amount: amount, Timestamp: time.Now()}
	err := db.conn.QueryRow(query, record.Amount, record.Timestamp).Scan(&record.ID)
	if err == sql.ErrNoRows {
		return db.AppendCashRecord(amount)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set current cash: %w", err)
	}
	return record, nil
}

// GetCurrentCash returns the most-recent cash record, or nil when the ledger
// is empty. Consumers treat the empty ledger as zero cash.
func (db *DB) GetCurrentCash() (*models.CashRecord, error) {
	query := `
		SELECT id, amount, recorded_at
		FROM cash_records
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`
	var record models.CashRecord
	err := db.conn.QueryRow(query).Scan(&record.ID, &record.Amount, &record.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current cash: %w", err)
	}
	return &record, nil
}

// GetCashHistory returns all ledger records ordered newest first
func (db *DB) GetCashHistory() ([]*models.CashRecord, error) {
	query := `
		SELECT id, amount, recorded_at
		FROM cash_records
		ORDER BY recorded_at DESC, id DESC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash history: %w", err)
	}
	defer rows.Close()

	var records []*models.CashRecord
	for rows.Next() {
		var record models.CashRecord
		if err := rows.Scan(&record.ID, &record.Amount, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan cash record: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// DeleteCashRecord removes a specific ledger record by id
func (db *DB) DeleteCashRecord(id int) error {
	result, err := db.conn.Exec(`DELETE FROM cash_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cash record: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: cash record %d", models.ErrNotFound, id)
	}
	return nil
}

// ClearCashHistory removes all ledger records
func (db *DB) ClearCashHistory() error {
	if _, err := db.conn.Exec(`DELETE FROM cash_records`); err != nil {
		return fmt.Errorf("failed to clear cash history: %w", err)
	}
	return nil
}
