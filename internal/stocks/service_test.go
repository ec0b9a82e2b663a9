package stocks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybersoul/portfolio-service/internal/models"
)

type fakeSource struct {
	bar *models.PriceBar
	err error
}

func (f *fakeSource) LatestDaily(ctx context.Context, symbol string) (*models.PriceBar, decimal.Decimal, error) {
	return f.bar, decimal.Zero, f.err
}

type fakeBarRepo struct {
	bars      []*models.PriceBar
	upsertErr error
}

func (f *fakeBarRepo) UpsertPriceBar(p *models.PriceBar) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.bars = append(f.bars, p)
	return nil
}

func (f *fakeBarRepo) GetPriceBars(symbol string, limit int) ([]*models.PriceBar, error) {
	if limit < len(f.bars) {
		return f.bars[:limit], nil
	}
	return f.bars, nil
}

func (f *fakeBarRepo) GetLatestPriceBar(symbol string) (*models.PriceBar, error) {
	if len(f.bars) == 0 {
		return nil, models.ErrNotFound
	}
	return f.bars[len(f.bars)-1], nil
}

func sampleBar() *models.PriceBar {
	return &models.PriceBar{
		Symbol: "AAPL",
		Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Open:   decimal.NewFromFloat(105),
		Close:  decimal.NewFromFloat(110),
	}
}

func TestUpdateStockData(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and records the latest bar", func(t *testing.T) {
		repo := &fakeBarRepo{}
		svc := NewService(&fakeSource{bar: sampleBar()}, repo)

		err := svc.UpdateStockData(ctx, "AAPL")
		require.NoError(t, err)
		require.Len(t, repo.bars, 1)
		assert.Equal(t, "AAPL", repo.bars[0].Symbol)
	})

	t.Run("fetch failure propagates unwrapped for errors.Is", func(t *testing.T) {
		svc := NewService(&fakeSource{err: models.ErrUpstreamUnavailable}, &fakeBarRepo{})

		err := svc.UpdateStockData(ctx, "AAPL")
		assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	})

	t.Run("persistence failure is wrapped", func(t *testing.T) {
		repo := &fakeBarRepo{upsertErr: errors.New("database down")}
		svc := NewService(&fakeSource{bar: sampleBar()}, repo)

		err := svc.UpdateStockData(ctx, "AAPL")
		assert.Error(t, err)
	})
}

func TestGetLatestPrice(t *testing.T) {
	t.Run("returns the close of the newest recorded bar", func(t *testing.T) {
		repo := &fakeBarRepo{bars: []*models.PriceBar{sampleBar()}}
		svc := NewService(&fakeSource{}, repo)

		price, err := svc.GetLatestPrice("AAPL")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromFloat(110).Equal(price))
	})

	t.Run("no history maps to not found", func(t *testing.T) {
		svc := NewService(&fakeSource{}, &fakeBarRepo{})

		_, err := svc.GetLatestPrice("AAPL")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
