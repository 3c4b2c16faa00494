package notify

import (
	"context"
	"testing"

	"skydeck/internal/kv"
)

const settingsKey = "notification_settings"

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if !s.FlightAlerts || !s.PriceAlerts || !s.WeatherAlerts {
		t.Fatalf("alert toggles should default on: %#v", s)
	}
	if s.EmailNotifications {
		t.Fatal("email notifications should default off")
	}
}

func TestSettingsAllows(t *testing.T) {
	s := Settings{PriceAlerts: true}
	if !s.Allows(CategoryMarket) {
		t.Fatal("market alerts ride on priceAlerts")
	}
	if !s.Allows(CategoryCurrency) {
		t.Fatal("currency alerts ride on priceAlerts")
	}
	if s.Allows(CategoryFlight) || s.Allows(CategoryWeather) {
		t.Fatal("disabled categories should not be allowed")
	}
	if s.Allows(Category("bogus")) {
		t.Fatal("unknown categories should not be allowed")
	}
}

func TestToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()

	store := OpenSettings(ctx, mem, settingsKey, noopLogger())
	updated, err := store.Toggle(ctx, "flightAlerts")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if updated.FlightAlerts {
		t.Fatal("flightAlerts should flip to false")
	}

	// The full record persists, so a reopened store sees the change.
	reopened := OpenSettings(ctx, mem, settingsKey, noopLogger())
	if reopened.Current().FlightAlerts {
		t.Fatal("toggled value should survive a reload")
	}
	if !reopened.Current().PriceAlerts {
		t.Fatal("untouched toggles should keep their defaults")
	}
}

func TestToggleUnknownKey(t *testing.T) {
	ctx := context.Background()
	store := OpenSettings(ctx, kv.NewMemory(), settingsKey, noopLogger())
	if _, err := store.Toggle(ctx, "smsAlerts"); err == nil {
		t.Fatal("unknown setting should error")
	}
}

func TestCorruptSettingsFallBackToDefaults(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	_ = mem.Set(ctx, settingsKey, "not json at all")

	store := OpenSettings(ctx, mem, settingsKey, noopLogger())
	if store.Current() != DefaultSettings() {
		t.Fatalf("corrupt payload should yield defaults: %#v", store.Current())
	}
}
