package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"skydeck/internal/alerting"
	"skydeck/internal/board"
	"skydeck/internal/config"
	"skydeck/internal/gateway"
	"skydeck/internal/kv"
	"skydeck/internal/notify"
	"skydeck/internal/poller"
	"skydeck/internal/server"
	"skydeck/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

type gateways struct {
	flights gateway.FlightSource
	crypto  gateway.CryptoSource
	rates   gateway.RateSource
	weather gateway.WeatherSource
}

func (a *App) newGateways() gateways {
	sources := a.Config.Sources
	opts := func(src config.SourceConfig) gateway.Options {
		return gateway.Options{
			BaseURL:   src.BaseURL,
			Timeout:   src.Timeout,
			UserAgent: sources.UserAgent,
		}
	}

	return gateways{
		flights: gateway.NewFlightClient(opts(sources.Flights), a.Logger),
		crypto:  gateway.NewCryptoClient(opts(sources.Crypto), a.Logger),
		rates:   gateway.NewRateClient(opts(sources.Rates), a.Logger),
		weather: gateway.NewWeatherClient(opts(sources.Weather), a.Logger),
	}
}

// newKV picks Redis when configured, the in-process store otherwise.
func (a *App) newKV(ctx context.Context) (kv.Store, func(), error) {
	if a.Config.Redis.Addr == "" {
		a.Logger.Info().Msg("redis.addr not configured; notifications held in memory")
		return kv.NewMemory(), func() {}, nil
	}

	store, err := kv.NewRedis(ctx, a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openAudit(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	return store, func() { store.Close() }, nil
}

func (a *App) newEngine(store *notify.Store, settings *notify.SettingsStore, audit storage.AlertAuditStore) *alerting.Engine {
	return alerting.NewEngine(store, settings, a.newNotifier(), audit, alerting.Options{
		PriceChangePct: a.Config.Alerting.PriceChangePct,
		Cooldown:       a.Config.Alerting.Cooldown,
	}, a.Logger)
}

// Run starts the pollers and serves the dashboard API until a signal
// arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeKV, err := a.newKV(ctx)
	if err != nil {
		return err
	}
	defer closeKV()

	audit, closeAudit, err := a.openAudit(ctx)
	if err != nil {
		return err
	}
	if audit == nil {
		a.Logger.Warn().Msg("database.dsn not configured; alert archive disabled")
	} else {
		defer closeAudit()
	}

	notifications := notify.Open(ctx, store, a.Config.Notifications.StorageKey, a.Logger)
	settings := notify.OpenSettings(ctx, store, a.Config.Notifications.SettingsKey, a.Logger)

	var engine *alerting.Engine
	if a.Config.Alerting.Enabled {
		var auditStore storage.AlertAuditStore
		if audit != nil {
			auditStore = audit
		}
		engine = a.newEngine(notifications, settings, auditStore)
	}

	gw := a.newGateways()
	weatherBoard := board.New(gw.weather, nil, a.Logger)
	regions := gateway.NewRegionSelector()

	flights := poller.New(poller.Options[[]gateway.Flight]{
		Name:     "flights",
		Interval: a.Config.Polling.Flights,
		Fetch: func(ctx context.Context) ([]gateway.Flight, error) {
			box := regions.Current().Box
			return gw.flights.Flights(ctx, &box)
		},
	}, a.Logger)

	markets := poller.New(poller.Options[[]gateway.CryptoAsset]{
		Name:     "markets",
		Interval: a.Config.Polling.Crypto,
		Fetch:    gw.crypto.Crypto,
		OnSuccess: func(assets []gateway.CryptoAsset) {
			if engine != nil {
				engine.EvaluateMarkets(ctx, assets)
			}
		},
	}, a.Logger)

	rates := poller.New(poller.Options[*gateway.RateTable]{
		Name:     "rates",
		Interval: a.Config.Polling.Rates,
		Fetch: func(ctx context.Context) (*gateway.RateTable, error) {
			return gw.rates.Rates(ctx, a.Config.Sources.RateBase)
		},
	}, a.Logger)

	weather := poller.New(poller.Options[[]board.AirportWeather]{
		Name:     "weather",
		Interval: a.Config.Polling.Weather,
		Fetch:    weatherBoard.Sweep,
		OnSuccess: func(entries []board.AirportWeather) {
			if engine != nil {
				engine.EvaluateBoard(ctx, entries)
			}
		},
	}, a.Logger)

	flights.Start(ctx)
	markets.Start(ctx)
	rates.Start(ctx)
	weather.Start(ctx)
	defer func() {
		flights.Stop()
		markets.Stop()
		rates.Stop()
		weather.Stop()
	}()

	srv := server.New(a.Config.Server, server.Deps{
		Flights:       flights,
		Regions:       regions,
		Markets:       markets,
		Rates:         rates,
		Board:         weather,
		Notifications: notifications,
		Settings:      settings,
	}, a.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	a.Logger.Info().Msg("dashboard running")

	select {
	case <-ctx.Done():
		a.Logger.Info().Msg("shutdown signal received")
		if err := srv.Shutdown(); err != nil {
			a.Logger.Warn().Err(err).Msg("http shutdown failed")
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.Error().Err(err).Msg("http server terminated with error")
			return err
		}
		return nil
	}
}

// ExportOptions hold parameters for exporting market data.
type ExportOptions struct {
	Coin      string
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command. PruneOlderThan, when set,
// deletes archived alerts older than the given age before listing.
type ShowOptions struct {
	Limit          int
	PruneOlderThan time.Duration
}

// NotificationOptions configure the notifications command.
type NotificationOptions struct {
	Filter  string
	Confirm bool
}
