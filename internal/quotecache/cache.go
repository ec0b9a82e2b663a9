// Package quotecache memoizes per-symbol market quotes for the lifetime of
// the process, bounded by an LRU capacity. Staleness between refreshes is a
// deliberate trade-off against rate-limit exhaustion upstream; callers
// needing fresher data use Invalidate before re-reading.
package quotecache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/cybersoul/portfolio-service/internal/marketdata"
	"github.com/cybersoul/portfolio-service/internal/models"
)

// DefaultCapacity bounds the number of distinct memoized symbols
const DefaultCapacity = 128

// Cache wraps a market-data source with a bounded memo table. Concurrent
// misses for the same symbol are collapsed into a single upstream call.
type Cache struct {
	source   marketdata.Source
	memo     *lru.Cache[string, models.Quote]
	inflight singleflight.Group
}

// New creates a quote cache over the given source
func New(source marketdata.Source, capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	memo, err := lru.New[string, models.Quote](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote memo: %w", err)
	}
	return &Cache{source: source, memo: memo}, nil
}

// GetQuote returns the memoized quote for a symbol, fetching it from the
// source on a miss. On source failure it returns the unavailable sentinel
// together with the error and does not cache the failure, so the next call
// retries the fetch.
func (c *Cache) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	if quote, ok := c.memo.Get(symbol); ok {
		return quote, nil
	}

	v, err, _ := c.inflight.Do(symbol, func() (interface{}, error) {
		// A concurrent miss may have filled the memo while we waited
		if quote, ok := c.memo.Get(symbol); ok {
			return quote, nil
		}

		bar, dividend, err := c.source.LatestDaily(ctx, symbol)
		if err != nil {
			return nil, err
		}

		last := bar.Close
		quote := models.Quote{
			Symbol:    symbol,
			LastPrice: &last,
			Open:      bar.Open,
			Dividend:  dividend,
		}
		c.memo.Add(symbol, quote)
		return quote, nil
	})
	if err != nil {
		return models.UnavailableQuote(symbol), err
	}

	return v.(models.Quote), nil
}

// Invalidate drops the memoized quote for a symbol so the next read
// refetches it
func (c *Cache) Invalidate(symbol string) {
	c.memo.Remove(symbol)
}

// Purge drops every memoized quote
func (c *Cache) Purge() {
	c.memo.Purge()
}

// Len returns the number of memoized symbols
func (c *Cache) Len() int {
	return c.memo.Len()
}
