// Package server exposes the dashboard state over a REST API. Each
// view endpoint returns the poller's current snapshot; mutation
// endpoints drive manual refreshes, auto-refresh toggles, and the
// notification centre.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"skydeck/internal/board"
	"skydeck/internal/config"
	"skydeck/internal/gateway"
	"skydeck/internal/notify"
	"skydeck/internal/poller"
)

// Deps collects everything the handlers read from or act on.
type Deps struct {
	Flights       *poller.Poller[[]gateway.Flight]
	Regions       *gateway.RegionSelector
	Markets       *poller.Poller[[]gateway.CryptoAsset]
	Rates         *poller.Poller[*gateway.RateTable]
	Board         *poller.Poller[[]board.AirportWeather]
	Notifications *notify.Store
	Settings      *notify.SettingsStore
}

// Server wraps the fiber app.
type Server struct {
	app    *fiber.App
	addr   string
	logger zerolog.Logger
}

// New builds the HTTP server and registers all routes.
func New(cfg config.ServerConfig, deps Deps, logger zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "skydeck",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})
	app.Use(recover.New())

	s := &Server{
		app:    app,
		addr:   cfg.Addr,
		logger: logger.With().Str("component", "http_server").Logger(),
	}
	registerRoutes(app, deps)
	return s
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	s.logger.Info().Str("addr", s.addr).Msg("http server listening")
	return s.app.Listen(s.addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}
