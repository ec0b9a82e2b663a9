// Package stocks maintains the persisted market-data history, independent
// of the in-process quote cache used for valuation.
package stocks

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cybersoul/portfolio-service/internal/marketdata"
	"github.com/cybersoul/portfolio-service/internal/models"
)

// BarRepository defines the persistence operations the service needs
type BarRepository interface {
	UpsertPriceBar(p *models.PriceBar) error
	GetPriceBars(symbol string, limit int) ([]*models.PriceBar, error)
	GetLatestPriceBar(symbol string) (*models.PriceBar, error)
}

// Service fetches daily bars and records them as history
type Service struct {
	source marketdata.Source
	repo   BarRepository
}

// NewService creates a stock market-data service
func NewService(source marketdata.Source, repo BarRepository) *Service {
	return &Service{source: source, repo: repo}
}

// UpdateStockData fetches the most recent daily bar for a symbol and
// upserts it into the history table
func (s *Service) UpdateStockData(ctx context.Context, symbol string) error {
	bar, _, err := s.source.LatestDaily(ctx, symbol)
	if err != nil {
		return err
	}

	if err := s.repo.UpsertPriceBar(bar); err != nil {
		return fmt.Errorf("failed to record bar for %s: %w", symbol, err)
	}
	return nil
}

// GetStockHistory returns up to days of recorded bars for a symbol,
// newest first
func (s *Service) GetStockHistory(symbol string, days int) ([]*models.PriceBar, error) {
	return s.repo.GetPriceBars(symbol, days)
}

// GetLatestPrice returns the close of the most recent recorded bar, or zero
// when no history exists
func (s *Service) GetLatestPrice(symbol string) (decimal.Decimal, error) {
	bar, err := s.repo.GetLatestPriceBar(symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return bar.Close, nil
}
