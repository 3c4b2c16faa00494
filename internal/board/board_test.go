package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"skydeck/internal/gateway"
	"skydeck/internal/present"
)

// stubWeather serves canned samples keyed by latitude.
type stubWeather struct {
	samples map[float64]*gateway.WeatherSample
	errs    map[float64]error
}

func (s *stubWeather) Weather(ctx context.Context, lat, lon float64) (*gateway.WeatherSample, error) {
	if err, failed := s.errs[lat]; failed {
		return nil, err
	}
	if sample, found := s.samples[lat]; found {
		return sample, nil
	}
	return nil, errors.New("no stub for coordinate")
}

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func sample(code int, wind float64) *gateway.WeatherSample {
	return &gateway.WeatherSample{
		TemperatureC: 15,
		WindspeedKmh: wind,
		WeatherCode:  code,
		ObservedAt:   time.Unix(1700000000, 0).UTC(),
	}
}

func testAirports() []Airport {
	return []Airport{
		{Code: "AAA", Name: "Alpha Field", City: "Alphaville", Lat: 1},
		{Code: "BBB", Name: "Bravo Intl", City: "Bravotown", Lat: 2},
		{Code: "CCC", Name: "Charlie Regional", City: "Charlieburg", Lat: 3},
	}
}

func TestSweepIsolatesFailures(t *testing.T) {
	source := &stubWeather{
		samples: map[float64]*gateway.WeatherSample{
			1: sample(0, 10),
			3: sample(95, 60),
		},
		errs: map[float64]error{2: errors.New("timeout")},
	}

	b := New(source, testAirports(), noopLogger())
	results, err := b.Sweep(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not fail the sweep: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("every airport should have an entry, got %d", len(results))
	}

	// Results stay in airport order regardless of completion order.
	if results[0].Airport.Code != "AAA" || results[2].Airport.Code != "CCC" {
		t.Fatalf("entries out of order: %#v", results)
	}

	if results[0].Condition != present.ConditionGoodVFR {
		t.Fatalf("clear calm weather should be Good VFR, got %q", results[0].Condition)
	}
	if results[1].Err == "" || results[1].Sample != nil {
		t.Fatalf("failed airport should carry only an error: %#v", results[1])
	}
	if results[2].Condition != present.ConditionHazardous {
		t.Fatalf("thunderstorm should be hazardous, got %q", results[2].Condition)
	}
	if results[2].Description != "Thunderstorm" {
		t.Fatalf("description wrong: %q", results[2].Description)
	}
	if results[0].Icon != "☀️" || results[2].Icon != "⛈️" {
		t.Fatalf("icons wrong: %q / %q", results[0].Icon, results[2].Icon)
	}
	if results[1].Icon != "" {
		t.Fatalf("failed airport should carry no icon, got %q", results[1].Icon)
	}
}

func TestSweepFailsWhenAllAirportsFail(t *testing.T) {
	source := &stubWeather{errs: map[float64]error{
		1: errors.New("down"),
		2: errors.New("down"),
		3: errors.New("down"),
	}}

	b := New(source, testAirports(), noopLogger())
	if _, err := b.Sweep(context.Background()); err == nil {
		t.Fatal("sweep should fail when no airport produced a sample")
	}
}

func TestNewDefaultsToMajorAirports(t *testing.T) {
	b := New(&stubWeather{}, nil, noopLogger())
	if len(b.airports) != len(MajorAirports) {
		t.Fatalf("empty airport list should default to the major set, got %d", len(b.airports))
	}
}

func TestSummarise(t *testing.T) {
	results := []AirportWeather{
		{Sample: sample(0, 10), Condition: present.ConditionGoodVFR},
		{Sample: sample(61, 10), Condition: present.ConditionMarginal},
		{Sample: sample(95, 10), Condition: present.ConditionHazardous},
		{Err: "down"},
	}

	s := Summarise(results)
	if s.Airports != 4 || s.GoodVFR != 1 || s.Marginal != 1 || s.Hazardous != 1 || s.Failed != 1 {
		t.Fatalf("summary wrong: %#v", s)
	}
}

func TestSearch(t *testing.T) {
	results := []AirportWeather{
		{Airport: Airport{Code: "JFK", Name: "John F. Kennedy International", City: "New York"}},
		{Airport: Airport{Code: "LHR", Name: "Heathrow", City: "London"}},
		{Airport: Airport{Code: "LAX", Name: "Los Angeles International", City: "Los Angeles"}},
	}

	if got := Search(results, ""); len(got) != 3 {
		t.Fatalf("blank query should return everything, got %d", len(got))
	}
	if got := Search(results, "l"); len(got) != 2 {
		t.Fatalf("prefix 'l' should match LHR and LAX, got %d", len(got))
	}
	if got := Search(results, "new"); len(got) != 1 || got[0].Airport.Code != "JFK" {
		t.Fatalf("city prefix should match JFK: %#v", got)
	}
	if got := Search(results, "heathrow"); len(got) != 1 {
		t.Fatalf("name prefix should match, got %d", len(got))
	}
	if got := Search(results, "zzz"); len(got) != 0 {
		t.Fatalf("no match expected, got %d", len(got))
	}
}
