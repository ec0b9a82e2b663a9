package fx

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// RateRepository defines the persistence operations the service needs
type RateRepository interface {
	CreateFxRate(r *models.FxRate) error
	GetLatestFxRates(code, codein string, limit int) ([]*models.FxRate, error)
	GetFxRateHistory(code, codein string) ([]*models.FxRate, error)
}

// Fetcher fetches the current quote for a pair
type Fetcher interface {
	FetchLast(ctx context.Context, pair string) (*models.FxRate, error)
}

// Service tracks one currency pair: it fetches current quotes, persists
// them as history, and derives the period-over-period variation.
type Service struct {
	fetcher Fetcher
	repo    RateRepository
	pair    string
	code    string
	codein  string
}

// NewService creates an FX service for a pair like "USD-BRL"
func NewService(fetcher Fetcher, repo RateRepository, pair string) *Service {
	code, codein, _ := strings.Cut(pair, "-")
	return &Service{
		fetcher: fetcher,
		repo:    repo,
		pair:    pair,
		code:    code,
		codein:  codein,
	}
}

// Pair returns the tracked currency pair
func (s *Service) Pair() string {
	return s.pair
}

// FetchCurrent fetches the current quote, persists it as a new historical
// row and returns it. No retry happens at this layer; retry policy belongs
// to the refresh loop.
func (s *Service) FetchCurrent(ctx context.Context) (*models.FxRate, error) {
	rate, err := s.fetcher.FetchLast(ctx, s.pair)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateFxRate(rate); err != nil {
		return nil, fmt.Errorf("failed to persist fx rate: %w", err)
	}
	return rate, nil
}

// History returns all historical rows for the pair, newest first
func (s *Service) History() ([]*models.FxRate, error) {
	return s.repo.GetFxRateHistory(s.code, s.codein)
}

// CurrentWithVariation returns the current bid and its difference from the
// previous fetch. It returns (0, 0) when no quote was ever fetched and
// (bid, 0) when exactly one row exists.
func (s *Service) CurrentWithVariation() (decimal.Decimal, decimal.Decimal, error) {
	rates, err := s.repo.GetLatestFxRates(s.code, s.codein, 2)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to load fx rates: %w", err)
	}

	switch len(rates) {
	case 0:
		return decimal.Zero, decimal.Zero, nil
	case 1:
		return rates[0].Bid, decimal.Zero, nil
	default:
		return rates[0].Bid, rates[0].Bid.Sub(rates[1].Bid), nil
	}
}
