package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// openMeteoTimeLayout is the minute-resolution ISO layout Open-Meteo
// uses when no timezone is requested.
const openMeteoTimeLayout = "2006-01-02T15:04"

// WeatherSample is one current-weather observation.
type WeatherSample struct {
	TemperatureC     float64   `json:"temperatureC"`
	WindspeedKmh     float64   `json:"windspeedKmh"`
	WinddirectionDeg int       `json:"winddirectionDegrees"`
	WeatherCode      int       `json:"weatherCode"`
	ObservedAt       time.Time `json:"observedAt"`
}

// WeatherClient fetches current weather from Open-Meteo.
type WeatherClient struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewWeatherClient constructs a weather fetcher.
func NewWeatherClient(opts Options, logger zerolog.Logger) *WeatherClient {
	opts = opts.normalized("https://api.open-meteo.com/v1")
	return &WeatherClient{
		opts:   opts,
		logger: logger.With().Str("component", "weather_gateway").Logger(),
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// Weather retrieves the current observation for a coordinate.
// Current weather only; no forecast is requested.
func (w *WeatherClient) Weather(ctx context.Context, lat, lon float64) (*WeatherSample, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("current_weather", "true")

	endpoint := fmt.Sprintf("%s/forecast?%s", w.opts.BaseURL, values.Encode())
	req, err := newRequest(ctx, endpoint, w.opts.UserAgent)
	if err != nil {
		return nil, err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		return nil, statusError("open-meteo", resp.StatusCode)
	}

	var payload struct {
		CurrentWeather *struct {
			Temperature   float64 `json:"temperature"`
			Windspeed     float64 `json:"windspeed"`
			Winddirection float64 `json:"winddirection"`
			Weathercode   int     `json:"weathercode"`
			Time          string  `json:"time"`
		} `json:"current_weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode weather payload: %w", err)
	}
	if payload.CurrentWeather == nil {
		return nil, fmt.Errorf("weather payload missing current_weather")
	}

	cw := payload.CurrentWeather
	sample := &WeatherSample{
		TemperatureC:     cw.Temperature,
		WindspeedKmh:     cw.Windspeed,
		WinddirectionDeg: int(cw.Winddirection),
		WeatherCode:      cw.Weathercode,
		ObservedAt:       parseObservationTime(cw.Time),
	}

	return sample, nil
}

func parseObservationTime(s string) time.Time {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC()
	}
	if ts, err := time.Parse(openMeteoTimeLayout, s); err == nil {
		return ts.UTC()
	}
	return time.Now().UTC()
}

var _ WeatherSource = (*WeatherClient)(nil)
