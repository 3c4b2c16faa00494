package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// CryptoAsset is one market-table row for a tracked coin.
type CryptoAsset struct {
	ID                string    `json:"id"`
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	ImageURL          string    `json:"imageUrl"`
	CurrentPrice      float64   `json:"currentPrice"`
	PriceChangePct24h float64   `json:"priceChangePct24h"`
	MarketCap         float64   `json:"marketCap"`
	TotalVolume       float64   `json:"totalVolume"`
	Sparkline7d       []float64 `json:"sparkline7d,omitempty"`
}

// CryptoClient fetches the market table from CoinGecko.
type CryptoClient struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewCryptoClient constructs a crypto market fetcher.
func NewCryptoClient(opts Options, logger zerolog.Logger) *CryptoClient {
	opts = opts.normalized("https://api.coingecko.com/api/v3")
	return &CryptoClient{
		opts:   opts,
		logger: logger.With().Str("component", "crypto_gateway").Logger(),
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// cryptoWire mirrors the upstream market row shape.
type cryptoWire struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Image             string  `json:"image"`
	CurrentPrice      float64 `json:"current_price"`
	PriceChangePct24h float64 `json:"price_change_percentage_24h"`
	MarketCap         float64 `json:"market_cap"`
	TotalVolume       float64 `json:"total_volume"`
	Sparkline         *struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// Crypto retrieves the top 20 coins by market cap, USD quoted, with
// 7-day sparklines.
func (c *CryptoClient) Crypto(ctx context.Context) ([]CryptoAsset, error) {
	endpoint := fmt.Sprintf(
		"%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=20&page=1&sparkline=true",
		c.opts.BaseURL,
	)
	req, err := newRequest(ctx, endpoint, c.opts.UserAgent)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch crypto markets: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return nil, statusError("coingecko", resp.StatusCode)
	}

	var rows []cryptoWire
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode crypto payload: %w", err)
	}

	assets := make([]CryptoAsset, 0, len(rows))
	for _, row := range rows {
		asset := CryptoAsset{
			ID:                row.ID,
			Symbol:            row.Symbol,
			Name:              row.Name,
			ImageURL:          row.Image,
			CurrentPrice:      row.CurrentPrice,
			PriceChangePct24h: row.PriceChangePct24h,
			MarketCap:         row.MarketCap,
			TotalVolume:       row.TotalVolume,
		}
		if row.Sparkline != nil {
			asset.Sparkline7d = row.Sparkline.Price
		}
		assets = append(assets, asset)
	}

	c.logger.Debug().Int("count", len(assets)).Msg("decoded crypto markets")
	return assets, nil
}

var _ CryptoSource = (*CryptoClient)(nil)
