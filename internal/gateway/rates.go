package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RateTable holds exchange rates keyed by currency code for one base.
// rates[base] is conventionally 1 when present.
type RateTable struct {
	Base        string                     `json:"base"`
	Rates       map[string]decimal.Decimal `json:"rates"`
	LastUpdated time.Time                  `json:"lastUpdated"`
}

// Rate returns the stored rate and whether the code is present.
func (t *RateTable) Rate(code string) (decimal.Decimal, bool) {
	rate, present := t.Rates[code]
	return rate, present
}

// RateClient fetches currency tables from ExchangeRate-API.
type RateClient struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewRateClient constructs an exchange-rate fetcher.
func NewRateClient(opts Options, logger zerolog.Logger) *RateClient {
	opts = opts.normalized("https://api.exchangerate-api.com/v4")
	return &RateClient{
		opts:   opts,
		logger: logger.With().Str("component", "rate_gateway").Logger(),
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// Rates retrieves the latest table for the base currency. An empty
// base defaults to USD.
func (r *RateClient) Rates(ctx context.Context, base string) (*RateTable, error) {
	if base == "" {
		base = "USD"
	}

	endpoint := fmt.Sprintf("%s/latest/%s", r.opts.BaseURL, base)
	req, err := newRequest(ctx, endpoint, r.opts.UserAgent)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return nil, statusError("exchangerate-api", resp.StatusCode)
	}

	var payload struct {
		Base            string                     `json:"base"`
		Rates           map[string]decimal.Decimal `json:"rates"`
		TimeLastUpdated int64                      `json:"time_last_updated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates payload: %w", err)
	}

	table := &RateTable{
		Base:        payload.Base,
		Rates:       payload.Rates,
		LastUpdated: time.Unix(payload.TimeLastUpdated, 0).UTC(),
	}

	r.logger.Debug().Str("base", table.Base).Int("codes", len(table.Rates)).Msg("decoded rate table")
	return table, nil
}

var _ RateSource = (*RateClient)(nil)
