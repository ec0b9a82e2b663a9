package database

import (
	"encoding/json"
	"fmt"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// ArchiveSnapshot appends a portfolio snapshot to the history table for
// later trend analysis. Snapshots are stored as jsonb payloads keyed by the
// headline figures.
func (db *DB) ArchiveSnapshot(s *models.PortfolioSnapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO portfolio_snapshots (id, version, total_value, total_cost, asset_count, generated_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = db.conn.Exec(query,
		s.ID, s.Version, s.TotalValue, s.TotalCost, s.AssetCount, s.GeneratedAt, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	return nil
}

// GetSnapshotHistory retrieves archived snapshots newest first, up to limit
func (db *DB) GetSnapshotHistory(limit int) ([]*models.PortfolioSnapshot, error) {
	query := `
		SELECT payload
		FROM portfolio_snapshots
		ORDER BY generated_at DESC
		LIMIT $1
	`
	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.PortfolioSnapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		var s models.PortfolioSnapshot
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		snapshots = append(snapshots, &s)
	}

	return snapshots, rows.Err()
}
