package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types published to and consumed from Kafka
const (
	EventAssetAdded      = "ASSET_ADDED"
	EventAssetRemoved    = "ASSET_REMOVED"
	EventSnapshotUpdated = "SNAPSHOT_UPDATED"
	EventPriceBar        = "PRICE_BAR"
)

// AssetEvent represents a Kafka event for asset registry changes
type AssetEvent struct {
	EventType string    `json:"event_type"`
	Asset     *Asset    `json:"asset,omitempty"`
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotEvent announces a newly published portfolio snapshot. It carries
// the headline figures only; consumers pull the full snapshot from the API
// or Redis.
type SnapshotEvent struct {
	EventType  string          `json:"event_type"`
	SnapshotID uuid.UUID       `json:"snapshot_id"`
	Version    uint64          `json:"version"`
	TotalValue decimal.Decimal `json:"total_value"`
	AssetCount int             `json:"asset_count"`
	Timestamp  time.Time       `json:"timestamp"`
}

// PriceBarEvent represents an externally produced daily bar to be ingested
// into market-data history
type PriceBarEvent struct {
	EventType string    `json:"event_type"`
	Symbol    string    `json:"symbol"`
	Bar       *PriceBar `json:"bar,omitempty"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
