package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// Redis keys used for the snapshot mirror
const (
	LatestKey     = "portfolio:snapshot:latest"
	UpdateChannel = "portfolio:updates"
)

// RedisPublisher mirrors published snapshots into Redis so presentation
// processes can read the latest one and subscribe to update notifications
// without polling the API.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a publisher connected to the given Redis address
func NewRedisPublisher(addr, password string, db int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisPublisher{client: client}
}

// Ping verifies the Redis connection
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// PublishSnapshot stores the snapshot JSON under the latest key and
// notifies subscribers with the new version
func (p *RedisPublisher) PublishSnapshot(ctx context.Context, snap *models.PortfolioSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := p.client.Set(ctx, LatestKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot in redis: %w", err)
	}

	if err := p.client.Publish(ctx, UpdateChannel, strconv.FormatUint(snap.Version, 10)).Err(); err != nil {
		return fmt.Errorf("failed to publish snapshot notification: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
