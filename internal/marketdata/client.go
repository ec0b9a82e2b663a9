// Package marketdata fetches daily OHLCV bars and trailing dividends from
// the Yahoo Finance chart API.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// DefaultBaseURL is the public Yahoo Finance chart endpoint
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// lookbackRange covers enough trading days to find the latest bar and the
// most recent dividend payment
const lookbackRange = "3mo"

// Source provides the most recent daily bar and trailing dividend for a
// symbol. It may fail or return empty for an invalid or delisted symbol;
// callers must treat empty as unavailable, not as a zero price.
type Source interface {
	LatestDaily(ctx context.Context, symbol string) (*models.PriceBar, decimal.Decimal, error)
}

// Client is an HTTP client for the chart API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a market-data client. Every request is bounded by the
// given timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// chartResponse mirrors the subset of the chart API payload we consume
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// LatestDaily returns the most recent complete daily bar for the symbol and
// the amount of its most recent dividend payment (zero when the symbol pays
// none within the lookback window).
func (c *Client) LatestDaily(ctx context.Context, symbol string) (*models.PriceBar, decimal.Decimal, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d&events=div", c.baseURL, symbol, lookbackRange)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to build chart request: %w", err)
	}
	req.Header.Set("User-Agent", "portfolio-service/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("%w: chart request for %s: %v", models.ErrUpstreamUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decimal.Zero, fmt.Errorf("%w: chart request for %s returned %s", models.ErrUpstreamUnavailable, symbol, resp.Status)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, decimal.Zero, fmt.Errorf("%w: failed to parse chart response for %s: %v", models.ErrUpstreamUnavailable, symbol, err)
	}

	if payload.Chart.Error != nil {
		return nil, decimal.Zero, fmt.Errorf("%w: chart API error for %s: %s", models.ErrUpstreamUnavailable, symbol, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, decimal.Zero, fmt.Errorf("%w: empty chart result for %s", models.ErrUpstreamUnavailable, symbol)
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bar := latestCompleteBar(symbol, result.Timestamp, quote.Open, quote.High, quote.Low, quote.Close, quote.Volume)
	if bar == nil {
		return nil, decimal.Zero, fmt.Errorf("%w: no complete bar for %s", models.ErrUpstreamUnavailable, symbol)
	}

	dividend := decimal.Zero
	var latest int64
	for _, d := range result.Events.Dividends {
		if d.Date >= latest {
			latest = d.Date
			dividend = decimal.NewFromFloat(d.Amount)
		}
	}

	return bar, dividend, nil
}

// latestCompleteBar walks the series backwards to the most recent bar with
// all OHLC fields present. The API pads the arrays with nulls for days the
// symbol did not trade.
func latestCompleteBar(symbol string, ts []int64, open, high, low, closes []*float64, volume []*int64) *models.PriceBar {
	for i := len(ts) - 1; i >= 0; i-- {
		if i >= len(open) || i >= len(high) || i >= len(low) || i >= len(closes) {
			continue
		}
		if open[i] == nil || high[i] == nil || low[i] == nil || closes[i] == nil {
			continue
		}

		bar := &models.PriceBar{
			Symbol: symbol,
			Date:   time.Unix(ts[i], 0).UTC().Truncate(24 * time.Hour),
			Open:   decimal.NewFromFloat(*open[i]),
			High:   decimal.NewFromFloat(*high[i]),
			Low:    decimal.NewFromFloat(*low[i]),
			Close:  decimal.NewFromFloat(*closes[i]),
		}
		if i < len(volume) && volume[i] != nil {
			bar.Volume = *volume[i]
		}
		return bar
	}
	return nil
}
