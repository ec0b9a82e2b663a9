package kafka

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybersoul/portfolio-service/internal/models"
)

type fakeBarRepo struct {
	bars []*models.PriceBar
	err  error
}

func (f *fakeBarRepo) UpsertPriceBar(p *models.PriceBar) error {
	if f.err != nil {
		return f.err
	}
	f.bars = append(f.bars, p)
	return nil
}

func priceBarMessage(t *testing.T, event models.PriceBarEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Key: []byte(event.Symbol), Value: value}
}

func TestProcessMessage(t *testing.T) {
	bar := &models.PriceBar{
		Symbol: "AAPL",
		Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Open:   decimal.NewFromFloat(105),
		High:   decimal.NewFromFloat(112),
		Low:    decimal.NewFromFloat(104),
		Close:  decimal.NewFromFloat(110),
		Volume: 1500000,
	}

	t.Run("stores a valid price bar event", func(t *testing.T) {
		repo := &fakeBarRepo{}
		consumer := &Consumer{repo: repo}

		msg := priceBarMessage(t, models.PriceBarEvent{
			EventType: models.EventPriceBar,
			Symbol:    "AAPL",
			Bar:       bar,
			Timestamp: time.Now(),
		})

		err := consumer.processMessage(msg)
		require.NoError(t, err)
		require.Len(t, repo.bars, 1)
		assert.Equal(t, "AAPL", repo.bars[0].Symbol)
		assert.True(t, decimal.NewFromFloat(110).Equal(repo.bars[0].Close))
	})

	t.Run("fills bar symbol from the event envelope when empty", func(t *testing.T) {
		repo := &fakeBarRepo{}
		consumer := &Consumer{repo: repo}

		anonymous := *bar
		anonymous.Symbol = ""
		msg := priceBarMessage(t, models.PriceBarEvent{
			EventType: models.EventPriceBar,
			Symbol:    "KO",
			Bar:       &anonymous,
		})

		err := consumer.processMessage(msg)
		require.NoError(t, err)
		require.Len(t, repo.bars, 1)
		assert.Equal(t, "KO", repo.bars[0].Symbol)
	})

	t.Run("ignores other event types", func(t *testing.T) {
		repo := &fakeBarRepo{}
		consumer := &Consumer{repo: repo}

		msg := priceBarMessage(t, models.PriceBarEvent{
			EventType: models.EventSnapshotUpdated,
			Symbol:    "AAPL",
		})

		err := consumer.processMessage(msg)
		require.NoError(t, err)
		assert.Empty(t, repo.bars)
	})

	t.Run("event without a bar payload is an error", func(t *testing.T) {
		consumer := &Consumer{repo: &fakeBarRepo{}}

		msg := priceBarMessage(t, models.PriceBarEvent{
			EventType: models.EventPriceBar,
			Symbol:    "AAPL",
		})

		err := consumer.processMessage(msg)
		assert.Error(t, err)
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		consumer := &Consumer{repo: &fakeBarRepo{}}
		err := consumer.processMessage(kafka.Message{Value: []byte("not json")})
		assert.Error(t, err)
	})

	t.Run("repository failure is wrapped", func(t *testing.T) {
		consumer := &Consumer{repo: &fakeBarRepo{err: errors.New("database down")}}

		msg := priceBarMessage(t, models.PriceBarEvent{
			EventType: models.EventPriceBar,
			Symbol:    "AAPL",
			Bar:       bar,
		})

		err := consumer.processMessage(msg)
		assert.Error(t, err)
	})
}
