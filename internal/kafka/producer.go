package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// Producer handles publishing events to Kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishAssetAdded publishes an asset added event
func (p *Producer) PublishAssetAdded(ctx context.Context, asset *models.Asset) error {
	event := models.AssetEvent{
		EventType: models.EventAssetAdded,
		Asset:     asset,
		Symbol:    asset.Symbol,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, asset.Symbol, event)
}

// PublishAssetRemoved publishes an asset removed event
func (p *Producer) PublishAssetRemoved(ctx context.Context, symbol string) error {
	event := models.AssetEvent{
		EventType: models.EventAssetRemoved,
		Symbol:    symbol,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, symbol, event)
}

// PublishSnapshot publishes a snapshot updated event carrying the headline
// figures of a freshly published portfolio snapshot
func (p *Producer) PublishSnapshot(ctx context.Context, snap *models.PortfolioSnapshot) error {
	event := models.SnapshotEvent{
		EventType:  models.EventSnapshotUpdated,
		SnapshotID: snap.ID,
		Version:    snap.Version,
		TotalValue: snap.TotalValue,
		AssetCount: snap.AssetCount,
		Timestamp:  time.Now(),
	}
	return p.publish(ctx, snap.ID.String(), event)
}

func (p *Producer) publish(ctx context.Context, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
