package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"skydeck/internal/board"
	"skydeck/internal/config"
	"skydeck/internal/gateway"
	"skydeck/internal/kv"
	"skydeck/internal/notify"
	"skydeck/internal/poller"
)

func newTestServer(t *testing.T) (*Server, *notify.Store) {
	t.Helper()
	logger := zerolog.Nop()
	ctx := context.Background()
	mem := kv.NewMemory()

	notifications := notify.Open(ctx, mem, "dashboard_notifications", logger)
	settings := notify.OpenSettings(ctx, mem, "notification_settings", logger)

	deps := Deps{
		Flights: poller.New(poller.Options[[]gateway.Flight]{
			Name: "flights", Interval: time.Hour,
			Fetch: func(ctx context.Context) ([]gateway.Flight, error) { return nil, nil },
		}, logger),
		Markets: poller.New(poller.Options[[]gateway.CryptoAsset]{
			Name: "markets", Interval: time.Hour,
			Fetch: func(ctx context.Context) ([]gateway.CryptoAsset, error) { return nil, nil },
		}, logger),
		Rates: poller.New(poller.Options[*gateway.RateTable]{
			Name: "rates", Interval: time.Hour,
			Fetch: func(ctx context.Context) (*gateway.RateTable, error) { return nil, nil },
		}, logger),
		Board: poller.New(poller.Options[[]board.AirportWeather]{
			Name: "weather", Interval: time.Hour,
			Fetch: func(ctx context.Context) ([]board.AirportWeather, error) { return nil, nil },
		}, logger),
		Regions:       gateway.NewRegionSelector(),
		Notifications: notifications,
		Settings:      settings,
	}

	return New(config.ServerConfig{Addr: ":0"}, deps, logger), notifications
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return body
}

func TestViewEndpointReturnsSnapshot(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/markets", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["phase"] != string(poller.PhaseIdle) {
		t.Fatalf("unstarted poller should report idle, got %v", body["phase"])
	}
	if body["hasData"] != false || body["stale"] != false {
		t.Fatalf("empty snapshot flags wrong: %v", body)
	}
	if _, present := body["intervalSeconds"]; !present {
		t.Fatal("response should expose the poll interval")
	}
}

func TestRefreshEndpointAccepted(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodPost, "/api/v1/flights/refresh", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
}

func TestAutoRefreshRejectsBadBody(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/flights/autorefresh", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing body, got %d", resp.StatusCode)
	}
}

func TestConvertEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/rates/convert?amount=100&from=USD&to=EUR", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// No rate table loaded yet: conversion degrades to identity.
	body := decodeBody(t, resp)
	if body["converted"] != "100" {
		t.Fatalf("identity conversion expected, got %v", body["converted"])
	}

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/rates/convert?amount=abc", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad amount, got %d", resp.StatusCode)
	}
}

func TestNotificationLifecycle(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	_ = store.Create(ctx, notify.Notification{ID: 1, Category: notify.CategoryFlight, Title: "a", CreatedAt: time.Now(), Priority: notify.PriorityLow})
	_ = store.Create(ctx, notify.Notification{ID: 2, Category: notify.CategoryMarket, Title: "b", CreatedAt: time.Now(), Priority: notify.PriorityHigh})

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/notifications?filter=unread", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := decodeBody(t, resp)
	if got := len(body["notifications"].([]any)); got != 2 {
		t.Fatalf("expected 2 unread, got %d", got)
	}

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodPost, "/api/v1/notifications/1/read", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := store.Counts().Unread; got != 1 {
		t.Fatalf("expected 1 unread after marking, got %d", got)
	}

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodDelete, "/api/v1/notifications/2", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := store.Counts().Total; got != 1 {
		t.Fatalf("expected 1 remaining, got %d", got)
	}
}

func TestCreateNotification(t *testing.T) {
	srv, store := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications",
		strings.NewReader(`{"type":"flight","title":"Delayed","message":"DLH123 holding"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	items := store.List(notify.FilterAll)
	if len(items) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(items))
	}
	if items[0].ID == 0 || items[0].Priority != notify.PriorityMedium {
		t.Fatalf("server should fill id and default priority: %#v", items[0])
	}

	// Unknown categories are rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/notifications",
		strings.NewReader(`{"type":"stocks","title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = srv.App().Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", resp.StatusCode)
	}
}

func TestDeleteAllRequiresConfirmation(t *testing.T) {
	srv, store := newTestServer(t)
	_ = store.Create(context.Background(), notify.Notification{ID: 1, Category: notify.CategoryFlight, Title: "a", CreatedAt: time.Now()})

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodDelete, "/api/v1/notifications", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unconfirmed delete-all should be rejected, got %d", resp.StatusCode)
	}
	if got := store.Counts().Total; got != 1 {
		t.Fatalf("collection should be untouched, got %d", got)
	}

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodDelete, "/api/v1/notifications?confirm=true", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirmed delete-all should succeed, got %d", resp.StatusCode)
	}
	if got := store.Counts().Total; got != 0 {
		t.Fatalf("collection should be empty, got %d", got)
	}
}

func TestSettingsToggle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodPost, "/api/v1/settings/weatherAlerts/toggle", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := decodeBody(t, resp)
	if body["weatherAlerts"] != false {
		t.Fatalf("weatherAlerts should flip off, got %v", body)
	}

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodPost, "/api/v1/settings/bogus/toggle", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown setting should be 400, got %d", resp.StatusCode)
	}
}

func TestRegionsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/flights/regions", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var regions []gateway.Region
	if err := json.Unmarshal(raw, &regions); err != nil {
		t.Fatalf("decode regions: %v", err)
	}
	if len(regions) != len(gateway.Regions) || regions[0].Name != "Europe" {
		t.Fatalf("regions payload wrong: %#v", regions)
	}
}

func TestRegionSelection(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/flights/region", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := decodeBody(t, resp)
	if body["name"] != "Europe" {
		t.Fatalf("default region should be Europe, got %v", body["name"])
	}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/flights/region", strings.NewReader(`{"name":"asia"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = srv.App().Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body = decodeBody(t, resp); body["name"] != "Asia" {
		t.Fatalf("selection should resolve case-insensitively, got %v", body["name"])
	}

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/flights/region", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body = decodeBody(t, resp); body["name"] != "Asia" {
		t.Fatalf("selection should persist, got %v", body["name"])
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/flights/region", nil)
	resp, err = srv.App().Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing body should be rejected, got %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
