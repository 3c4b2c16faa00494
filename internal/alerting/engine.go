// Package alerting turns fresh dashboard data into notifications. The
// engine inspects each poll result, applies the configured thresholds,
// and routes the resulting alerts through the notification store, the
// optional PostgreSQL archive, and Telegram.
package alerting

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"skydeck/internal/board"
	"skydeck/internal/gateway"
	"skydeck/internal/notify"
	"skydeck/internal/present"
	"skydeck/internal/storage"
)

// Options tunes the engine thresholds.
type Options struct {
	// PriceChangePct is the absolute 24h move, in percent, above which
	// a market alert fires.
	PriceChangePct float64
	// Cooldown suppresses repeat alerts for the same subject.
	Cooldown time.Duration
}

// Engine evaluates poll results and emits alerts.
type Engine struct {
	store    *notify.Store
	settings *notify.SettingsStore
	notifier Notifier
	audit    storage.AlertAuditStore
	opts     Options
	logger   zerolog.Logger

	mu        sync.Mutex
	lastFired map[string]time.Time
	clock     func() time.Time
}

// NewEngine builds an alert engine. Both notifier and audit may be nil;
// alerts then reach only the notification store.
func NewEngine(store *notify.Store, settings *notify.SettingsStore, notifier Notifier, audit storage.AlertAuditStore, opts Options, logger zerolog.Logger) *Engine {
	if opts.PriceChangePct <= 0 {
		opts.PriceChangePct = 5.0
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 30 * time.Minute
	}
	return &Engine{
		store:     store,
		settings:  settings,
		notifier:  notifier,
		audit:     audit,
		opts:      opts,
		logger:    logger.With().Str("component", "alert_engine").Logger(),
		lastFired: make(map[string]time.Time),
		clock:     time.Now,
	}
}

// EvaluateMarkets raises an alert per coin whose 24h move exceeds the
// threshold. Moves beyond twice the threshold are high priority.
func (e *Engine) EvaluateMarkets(ctx context.Context, assets []gateway.CryptoAsset) {
	for _, asset := range assets {
		move := asset.PriceChangePct24h
		if math.Abs(move) <= e.opts.PriceChangePct {
			continue
		}

		priority := notify.PriorityMedium
		if math.Abs(move) > 2*e.opts.PriceChangePct {
			priority = notify.PriorityHigh
		}

		direction := "up"
		if move < 0 {
			direction = "down"
		}

		e.Emit(ctx, Alert{
			Category: notify.CategoryMarket,
			Priority: priority,
			Subject:  "market:" + asset.ID,
			Title:    asset.Name + " moving " + direction,
			Message:  asset.Name + " is " + direction + " " + present.ChangePct(move) + " over 24h at " + present.Price(asset.CurrentPrice),
			At:       e.clock(),
		})
	}
}

// EvaluateBoard raises a high-priority weather alert for every airport
// currently in hazardous conditions.
func (e *Engine) EvaluateBoard(ctx context.Context, entries []board.AirportWeather) {
	for _, entry := range entries {
		if entry.Sample == nil || entry.Condition != present.ConditionHazardous {
			continue
		}
		e.Emit(ctx, Alert{
			Category: notify.CategoryWeather,
			Priority: notify.PriorityHigh,
			Subject:  "weather:" + entry.Airport.Code,
			Title:    "Hazardous conditions at " + entry.Airport.Code,
			Message:  entry.Description + " at " + entry.Airport.Name + " (" + entry.Airport.City + ")",
			At:       e.clock(),
		})
	}
}

// Emit routes one alert. User settings gate the category, and the
// cooldown suppresses repeats of the same subject.
func (e *Engine) Emit(ctx context.Context, alert Alert) {
	if e.settings != nil && !e.settings.Current().Allows(alert.Category) {
		e.logger.Debug().Str("category", string(alert.Category)).Msg("alert muted by user settings")
		return
	}
	if !e.shouldFire(alert) {
		e.logger.Debug().Str("subject", alert.Subject).Msg("alert suppressed by cooldown")
		return
	}

	if alert.At.IsZero() {
		alert.At = e.clock()
	}

	notification := notify.Notification{
		ID:        alert.At.UnixNano(),
		Category:  alert.Category,
		Title:     alert.Title,
		Message:   alert.Message,
		CreatedAt: alert.At,
		Priority:  alert.Priority,
	}
	if err := e.store.Create(ctx, notification); err != nil {
		e.logger.Error().Err(err).Str("subject", alert.Subject).Msg("persist notification failed")
	}

	if e.audit != nil {
		_, err := e.audit.InsertAlert(ctx, storage.AuditRecord{
			Category:  string(alert.Category),
			Priority:  string(alert.Priority),
			Title:     alert.Title,
			Message:   alert.Message,
			CreatedAt: alert.At,
		})
		if err != nil && err != storage.ErrNotConfigured {
			e.logger.Warn().Err(err).Msg("archive alert failed")
		}
	}

	if e.notifier != nil && alert.Priority == notify.PriorityHigh {
		if err := e.notifier.Notify(ctx, alert); err != nil {
			e.logger.Warn().Err(err).Str("subject", alert.Subject).Msg("外送告警失败")
		}
	}

	e.logger.Info().
		Str("category", string(alert.Category)).
		Str("priority", string(alert.Priority)).
		Str("title", alert.Title).
		Msg("alert emitted")
}

func (e *Engine) shouldFire(alert Alert) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	if last, seen := e.lastFired[alert.Subject]; seen && now.Sub(last) < e.opts.Cooldown {
		return false
	}
	e.lastFired[alert.Subject] = now
	return true
}
