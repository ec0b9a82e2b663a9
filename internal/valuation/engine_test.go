package valuation

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybersoul/portfolio-service/internal/models"
)

type fakeAssets struct {
	assets []*models.Asset
	err    error
}

func (f *fakeAssets) GetAllAssets() ([]*models.Asset, error) {
	return f.assets, f.err
}

type fakeCash struct {
	record *models.CashRecord
	err    error
}

func (f *fakeCash) GetCurrentCash() (*models.CashRecord, error) {
	return f.record, f.err
}

type fakeQuotes struct {
	quotes map[string]models.Quote
	errs   map[string]error
}

func (f *fakeQuotes) GetQuote(ctx context.Context, symbol string) (models.Quote, error) {
	if err, ok := f.errs[symbol]; ok {
		return models.UnavailableQuote(symbol), err
	}
	return f.quotes[symbol], nil
}

func quoteFor(symbol string, last, open float64) models.Quote {
	price := decimal.NewFromFloat(last)
	return models.Quote{
		Symbol:    symbol,
		LastPrice: &price,
		Open:      decimal.NewFromFloat(open),
	}
}

func asset(symbol string, shares, purchase float64) *models.Asset {
	return &models.Asset{
		Symbol:        symbol,
		Name:          symbol + " Inc",
		Type:          models.AssetTypeStock,
		Shares:        decimal.NewFromFloat(shares),
		PurchasePrice: decimal.NewFromFloat(purchase),
	}
}

func TestComputePortfolio(t *testing.T) {
	ctx := context.Background()

	t.Run("empty registry yields zero snapshot with cash only", func(t *testing.T) {
		cash := decimal.NewFromFloat(250.50)
		engine := NewEngine(
			&fakeAssets{},
			&fakeCash{record: &models.CashRecord{ID: 1, Amount: cash}},
			&fakeQuotes{},
		)

		snap, err := engine.ComputePortfolio(ctx)
		require.NoError(t, err)

		assert.Equal(t, 0, snap.AssetCount)
		assert.Empty(t, snap.Assets)
		assert.True(t, cash.Equal(snap.Cash))
		assert.True(t, cash.Equal(snap.TotalValue))
		assert.True(t, snap.TotalCost.IsZero())
		assert.True(t, snap.TotalGain.IsZero())
		assert.True(t, snap.TotalGainPct.IsZero())
	})

	t.Run("single asset metrics", func(t *testing.T) {
		engine := NewEngine(
			&fakeAssets{assets: []*models.Asset{asset("AAPL", 10, 100)}},
			&fakeCash{},
			&fakeQuotes{quotes: map[string]models.Quote{"AAPL": quoteFor("AAPL", 110, 105)}},
		)

		snap, err := engine.ComputePortfolio(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Assets, 1)

		v := snap.Assets[0]
		assert.True(t, decimal.NewFromFloat(1100).Equal(v.MarketValue))
		assert.True(t, decimal.NewFromFloat(1000).Equal(v.TotalCost))
		assert.True(t, decimal.NewFromFloat(100).Equal(v.TotalGainAmount))
		assert.True(t, decimal.NewFromFloat(10).Equal(v.TotalGainPct))
		assert.True(t, decimal.NewFromFloat(50).Equal(v.DayGainAmount))
		// (110-105)/105 * 100
		expectedDayPct := decimal.NewFromFloat(5).Div(decimal.NewFromFloat(105)).Mul(decimal.NewFromInt(100))
		assert.True(t, expectedDayPct.Equal(v.DayGainPct))

		assert.Equal(t, 1, snap.AssetCount)
		assert.True(t, decimal.NewFromFloat(1100).Equal(snap.TotalValue))
		assert.True(t, decimal.NewFromFloat(1000).Equal(snap.TotalCost))
		assert.True(t, decimal.NewFromFloat(100).Equal(snap.TotalGain))
		assert.True(t, decimal.NewFromFloat(10).Equal(snap.TotalGainPct))
	})

	t.Run("unavailable symbol is skipped without aborting", func(t *testing.T) {
		engine := NewEngine(
			&fakeAssets{assets: []*models.Asset{asset("AAPL", 10, 100), asset("DEAD", 5, 20)}},
			&fakeCash{},
			&fakeQuotes{
				quotes: map[string]models.Quote{"AAPL": quoteFor("AAPL", 110, 105)},
				errs:   map[string]error{"DEAD": models.ErrUpstreamUnavailable},
			},
		)

		snap, err := engine.ComputePortfolio(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, snap.AssetCount)
		assert.Equal(t, []string{"DEAD"}, snap.SkippedSymbols)
		assert.True(t, decimal.NewFromFloat(1100).Equal(snap.TotalValue))
		assert.True(t, decimal.NewFromFloat(1000).Equal(snap.TotalCost))
	})

	t.Run("quote without last price is skipped even without source error", func(t *testing.T) {
		engine := NewEngine(
			&fakeAssets{assets: []*models.Asset{asset("HALT", 3, 10)}},
			&fakeCash{},
			&fakeQuotes{quotes: map[string]models.Quote{"HALT": models.UnavailableQuote("HALT")}},
		)

		snap, err := engine.ComputePortfolio(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.AssetCount)
		assert.Equal(t, []string{"HALT"}, snap.SkippedSymbols)
	})

	t.Run("zero baselines produce zero percentages", func(t *testing.T) {
		free := asset("GIFT", 4, 0)
		engine := NewEngine(
			&fakeAssets{assets: []*models.Asset{free}},
			&fakeCash{},
			&fakeQuotes{quotes: map[string]models.Quote{"GIFT": quoteFor("GIFT", 25, 0)}},
		)

		snap, err := engine.ComputePortfolio(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Assets, 1)

		v := snap.Assets[0]
		assert.True(t, v.DayGainPct.IsZero())
		assert.True(t, v.TotalGainPct.IsZero())
		assert.True(t, decimal.NewFromFloat(100).Equal(v.MarketValue))
		assert.True(t, v.TotalCost.IsZero())
		// All cost basis is zero so the aggregate percentage stays zero too
		assert.True(t, snap.TotalGainPct.IsZero())
	})

	t.Run("repository errors propagate", func(t *testing.T) {
		engine := NewEngine(&fakeAssets{err: errors.New("boom")}, &fakeCash{}, &fakeQuotes{})
		_, err := engine.ComputePortfolio(ctx)
		assert.Error(t, err)

		engine = NewEngine(&fakeAssets{}, &fakeCash{err: errors.New("boom")}, &fakeQuotes{})
		_, err = engine.ComputePortfolio(ctx)
		assert.Error(t, err)
	})
}
