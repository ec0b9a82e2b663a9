// Package fx fetches and tracks currency conversion rates from the
// AwesomeAPI economia endpoint.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cybersoul/portfolio-service/internal/models"
)

// DefaultBaseURL is the public AwesomeAPI endpoint
const DefaultBaseURL = "https://economia.awesomeapi.com.br"

// Client is an HTTP client for the currency quote API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an FX client. Every request is bounded by the given
// timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// rawQuote mirrors one entry of the /json/last payload. All numeric fields
// arrive as strings.
type rawQuote struct {
	Code      string `json:"code"`
	Codein    string `json:"codein"`
	Name      string `json:"name"`
	High      string `json:"high"`
	Low       string `json:"low"`
	VarBid    string `json:"varBid"`
	PctChange string `json:"pctChange"`
	Bid       string `json:"bid"`
	Ask       string `json:"ask"`
}

// FetchLast fetches the current quote for a pair like "USD-BRL" and stamps
// it with the fetch time
func (c *Client) FetchLast(ctx context.Context, pair string) (*models.FxRate, error) {
	url := fmt.Sprintf("%s/json/last/%s", c.baseURL, pair)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fx request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fx request for %s: %v", models.ErrUpstreamUnavailable, pair, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fx request for %s returned %s", models.ErrUpstreamUnavailable, pair, resp.Status)
	}

	var payload map[string]rawQuote
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse fx response for %s: %v", models.ErrUpstreamUnavailable, pair, err)
	}

	// The API keys the object by the pair without the dash, e.g. "USDBRL"
	key := strings.ReplaceAll(pair, "-", "")
	raw, ok := payload[key]
	if !ok {
		return nil, fmt.Errorf("%w: fx response for %s missing quote %s", models.ErrUpstreamUnavailable, pair, key)
	}

	rate, err := raw.toRate()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed fx quote for %s: %v", models.ErrUpstreamUnavailable, pair, err)
	}
	rate.FetchedAt = time.Now()
	return rate, nil
}

func (q rawQuote) toRate() (*models.FxRate, error) {
	rate := &models.FxRate{Code: q.Code, Codein: q.Codein, Name: q.Name}

	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"high", q.High, &rate.High},
		{"low", q.Low, &rate.Low},
		{"varBid", q.VarBid, &rate.VarBid},
		{"pctChange", q.PctChange, &rate.PctChange},
		{"bid", q.Bid, &rate.Bid},
		{"ask", q.Ask, &rate.Ask},
	}
	for _, f := range fields {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			return nil, fmt.Errorf("bad %s value %q", f.name, f.raw)
		}
		*f.dst = v
	}

	return rate, nil
}
