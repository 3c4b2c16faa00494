// Package board assembles the aviation weather view: current
// conditions for a fixed set of major airports, fetched concurrently
// with per-airport failure isolation.
package board

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"skydeck/internal/gateway"
	"skydeck/internal/present"
)

// AirportWeather pairs an airport with its latest observation. Err is
// set when that airport's fetch failed; other entries are unaffected.
type AirportWeather struct {
	Airport     Airport                `json:"airport"`
	Sample      *gateway.WeatherSample `json:"sample,omitempty"`
	Condition   present.Condition      `json:"condition,omitempty"`
	Description string                 `json:"description,omitempty"`
	Icon        string                 `json:"icon,omitempty"`
	Err         string                 `json:"error,omitempty"`
}

// Summary tallies the board by flight condition.
type Summary struct {
	Airports  int `json:"airports"`
	GoodVFR   int `json:"goodVfr"`
	Marginal  int `json:"marginal"`
	Hazardous int `json:"hazardous"`
	Failed    int `json:"failed"`
}

// Board sweeps the airport set against the weather source.
type Board struct {
	source   gateway.WeatherSource
	airports []Airport
	logger   zerolog.Logger
}

// New constructs a board over the given airports. An empty list
// defaults to MajorAirports.
func New(source gateway.WeatherSource, airports []Airport, logger zerolog.Logger) *Board {
	if len(airports) == 0 {
		airports = MajorAirports
	}
	return &Board{
		source:   source,
		airports: airports,
		logger:   logger.With().Str("component", "weather_board").Logger(),
	}
}

// Sweep fetches every airport concurrently and waits for all requests
// to settle. A slow or failing airport never blocks the others; the
// sweep as a whole fails only when no airport produced a sample.
func (b *Board) Sweep(ctx context.Context) ([]AirportWeather, error) {
	results := make([]AirportWeather, len(b.airports))

	var wg sync.WaitGroup
	for i, airport := range b.airports {
		wg.Add(1)
		go func(i int, airport Airport) {
			defer wg.Done()

			entry := AirportWeather{Airport: airport}
			sample, err := b.source.Weather(ctx, airport.Lat, airport.Lon)
			if err != nil {
				entry.Err = err.Error()
				b.logger.Warn().Err(err).Str("airport", airport.Code).Msg("airport weather fetch failed")
			} else {
				entry.Sample = sample
				entry.Condition = present.FlightCondition(sample.WeatherCode, sample.WindspeedKmh)
				entry.Description = present.WeatherDescription(sample.WeatherCode)
				entry.Icon = present.WeatherIcon(sample.WeatherCode)
			}
			results[i] = entry
		}(i, airport)
	}
	wg.Wait()

	succeeded := 0
	for _, entry := range results {
		if entry.Sample != nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("all %d airport weather fetches failed", len(b.airports))
	}

	b.logger.Debug().Int("succeeded", succeeded).Int("airports", len(b.airports)).Msg("board sweep complete")
	return results, nil
}

// Summarise tallies a sweep result by condition.
func Summarise(results []AirportWeather) Summary {
	s := Summary{Airports: len(results)}
	for _, entry := range results {
		switch {
		case entry.Sample == nil:
			s.Failed++
		case entry.Condition == present.ConditionHazardous:
			s.Hazardous++
		case entry.Condition == present.ConditionMarginal:
			s.Marginal++
		default:
			s.GoodVFR++
		}
	}
	return s
}

// Search filters entries by a prefix match on airport code, city, or
// name. A blank query returns everything.
func Search(results []AirportWeather, query string) []AirportWeather {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return results
	}

	out := make([]AirportWeather, 0, len(results))
	for _, entry := range results {
		airport := entry.Airport
		if strings.HasPrefix(strings.ToLower(airport.Code), q) ||
			strings.HasPrefix(strings.ToLower(airport.City), q) ||
			strings.HasPrefix(strings.ToLower(airport.Name), q) {
			out = append(out, entry)
		}
	}
	return out
}
