// Package gateway wraps the four upstream REST sources behind typed
// fetchers. Each call issues exactly one outbound request and decodes
// the payload into named records at the boundary; retry and re-poll
// policy belongs to the caller.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrUpstream marks a non-2xx response from an upstream source.
var ErrUpstream = errors.New("upstream error")

// FlightSource retrieves live aircraft state vectors.
type FlightSource interface {
	Flights(ctx context.Context, box *BoundingBox) ([]Flight, error)
}

// CryptoSource retrieves the crypto market table.
type CryptoSource interface {
	Crypto(ctx context.Context) ([]CryptoAsset, error)
}

// RateSource retrieves an exchange-rate table for a base currency.
type RateSource interface {
	Rates(ctx context.Context, base string) (*RateTable, error)
}

// WeatherSource retrieves a current-weather observation for a point.
type WeatherSource interface {
	Weather(ctx context.Context, lat, lon float64) (*WeatherSample, error)
}

// Options parameterise a single source client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

func (o Options) normalized(defaultBase string) Options {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.BaseURL == "" {
		o.BaseURL = defaultBase
	}
	if strings.TrimSpace(o.UserAgent) == "" {
		o.UserAgent = "skydeck/1.0"
	}
	return o
}

func newRequest(ctx context.Context, url, userAgent string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

func statusError(source string, status int) error {
	return fmt.Errorf("%w: %s responded %d", ErrUpstream, source, status)
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
