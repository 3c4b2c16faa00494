package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"skydeck/internal/kv"
)

// Settings holds the per-category alert toggles.
type Settings struct {
	FlightAlerts       bool `json:"flightAlerts"`
	PriceAlerts        bool `json:"priceAlerts"`
	WeatherAlerts      bool `json:"weatherAlerts"`
	EmailNotifications bool `json:"emailNotifications"`
}

// DefaultSettings mirrors the dashboard's initial state.
func DefaultSettings() Settings {
	return Settings{
		FlightAlerts:  true,
		PriceAlerts:   true,
		WeatherAlerts: true,
	}
}

// Allows reports whether alerts of the given category are enabled.
// Currency alerts ride on the price toggle.
func (s Settings) Allows(c Category) bool {
	switch c {
	case CategoryFlight:
		return s.FlightAlerts
	case CategoryMarket, CategoryCurrency:
		return s.PriceAlerts
	case CategoryWeather:
		return s.WeatherAlerts
	}
	return false
}

// SettingsStore persists the settings record on every toggle.
type SettingsStore struct {
	mu     sync.Mutex
	kv     kv.Store
	key    string
	cur    Settings
	logger zerolog.Logger
}

// OpenSettings loads settings from the key-value store, falling back
// to defaults when the value is missing or corrupt.
func OpenSettings(ctx context.Context, store kv.Store, key string, logger zerolog.Logger) *SettingsStore {
	s := &SettingsStore{
		kv:     store,
		key:    key,
		cur:    DefaultSettings(),
		logger: logger.With().Str("component", "notification_settings").Logger(),
	}

	raw, found, err := store.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load settings; using defaults")
		return s
	}
	if !found {
		return s
	}

	var loaded Settings
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn().Err(err).Msg("stored settings corrupt; using defaults")
		return s
	}
	s.cur = loaded
	return s
}

// Current returns the settings record.
func (s *SettingsStore) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Toggle flips the named boolean and persists the whole record.
func (s *SettingsStore) Toggle(ctx context.Context, key string) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch key {
	case "flightAlerts":
		s.cur.FlightAlerts = !s.cur.FlightAlerts
	case "priceAlerts":
		s.cur.PriceAlerts = !s.cur.PriceAlerts
	case "weatherAlerts":
		s.cur.WeatherAlerts = !s.cur.WeatherAlerts
	case "emailNotifications":
		s.cur.EmailNotifications = !s.cur.EmailNotifications
	default:
		return s.cur, fmt.Errorf("unknown setting %q", key)
	}

	raw, err := json.Marshal(s.cur)
	if err != nil {
		return s.cur, fmt.Errorf("serialise settings: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return s.cur, fmt.Errorf("persist settings: %w", err)
	}
	return s.cur, nil
}
