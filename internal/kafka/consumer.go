package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// PriceBarRepository defines the database operations the consumer needs.
// UpsertPriceBar is idempotent on (symbol, date), which makes redelivered
// messages harmless.
type PriceBarRepository interface {
	UpsertPriceBar(p *models.PriceBar) error
}

// Consumer ingests externally produced PRICE_BAR events into the persisted
// market-data history. It is an alternate feed alongside the refresh loop's
// own fetches; both write through the same upsert.
type Consumer struct {
	reader *kafka.Reader
	repo   PriceBarRepository
}

// NewConsumer creates a new Kafka consumer for price bar events
func NewConsumer(brokers []string, topic, groupID string, repo PriceBarRepository) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader: reader,
		repo:   repo,
	}
}

// Start begins consuming messages from Kafka
func (c *Consumer) Start(ctx context.Context) error {
	log.Printf("Starting Kafka consumer for topic: %s", c.reader.Config().Topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("Kafka consumer shutting down...")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				log.Printf("Error reading message: %v", err)
				continue
			}

			if err := c.processMessage(msg); err != nil {
				log.Printf("Error processing message: %v", err)
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *Consumer) processMessage(msg kafka.Message) error {
	log.Printf("Received message from partition %d offset %d: key=%s",
		msg.Partition, msg.Offset, string(msg.Key))

	var event models.PriceBarEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal price bar event: %w", err)
	}

	// Only process PRICE_BAR events
	if event.EventType != models.EventPriceBar {
		log.Printf("Ignoring event type: %s", event.EventType)
		return nil
	}

	if event.Bar == nil {
		return fmt.Errorf("price bar event for %s has no bar payload", event.Symbol)
	}
	if event.Bar.Symbol == "" {
		event.Bar.Symbol = event.Symbol
	}

	if err := c.repo.UpsertPriceBar(event.Bar); err != nil {
		return fmt.Errorf("failed to store price bar for %s: %w", event.Bar.Symbol, err)
	}

	log.Printf("Ingested price bar for %s (%s)", event.Bar.Symbol, event.Bar.Date.Format("2006-01-02"))
	return nil
}
