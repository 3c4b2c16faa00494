package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"skydeck/internal/board"
	"skydeck/internal/gateway"
	"skydeck/internal/notify"
	"skydeck/internal/poller"
	"skydeck/internal/present"
)

// viewEnvelope is the common wrapper for snapshot responses. Stale is
// true when the payload predates a failed refresh; clients render the
// data under an error banner in that case.
func viewEnvelope[T any](p *poller.Poller[T]) fiber.Map {
	snap := p.Snapshot()
	m := fiber.Map{
		"data":            snap.Data,
		"hasData":         snap.HasData,
		"fetchedAt":       snap.FetchedAt,
		"loading":         snap.Loading,
		"phase":           snap.Phase,
		"stale":           snap.Stale(),
		"autoRefresh":     p.AutoRefresh(),
		"intervalSeconds": int(p.Interval().Seconds()),
	}
	if snap.LastError != "" {
		m["error"] = snap.LastError
	}
	return m
}

// registerView wires the snapshot, refresh, and auto-refresh endpoints
// one dashboard view shares.
func registerView[T any](group fiber.Router, path string, p *poller.Poller[T]) {
	group.Get(path, func(c *fiber.Ctx) error {
		return c.JSON(viewEnvelope(p))
	})

	group.Post(path+"/refresh", func(c *fiber.Ctx) error {
		p.Refresh()
		return c.SendStatus(fiber.StatusAccepted)
	})

	group.Put(path+"/autorefresh", func(c *fiber.Ctx) error {
		var body struct {
			Enabled bool `json:"enabled"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "body must be {\"enabled\": bool}")
		}
		p.SetAutoRefresh(body.Enabled)
		return c.JSON(fiber.Map{"autoRefresh": p.AutoRefresh()})
	})
}

func registerRoutes(app *fiber.App, deps Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	registerView(v1, "/flights", deps.Flights)
	registerView(v1, "/markets", deps.Markets)
	registerView(v1, "/rates", deps.Rates)
	registerView(v1, "/weather", deps.Board)

	v1.Get("/flights/regions", func(c *fiber.Ctx) error {
		return c.JSON(gateway.Regions)
	})

	v1.Get("/flights/region", func(c *fiber.Ctx) error {
		return c.JSON(deps.Regions.Current())
	})

	// Switching regions triggers an immediate refetch; the poll cadence
	// itself is unchanged.
	v1.Put("/flights/region", func(c *fiber.Ctx) error {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.BodyParser(&body); err != nil || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "body must be {\"name\": string}")
		}
		region := deps.Regions.Select(body.Name)
		deps.Flights.Refresh()
		return c.JSON(region)
	})

	v1.Get("/rates/convert", func(c *fiber.Ctx) error {
		amountStr := c.Query("amount", "1")
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be numeric")
		}
		from := strings.ToUpper(c.Query("from", "USD"))
		to := strings.ToUpper(c.Query("to", "EUR"))

		snap := deps.Rates.Snapshot()
		var table *gateway.RateTable
		if snap.HasData {
			table = snap.Data
		}

		return c.JSON(fiber.Map{
			"amount":    amount,
			"from":      from,
			"to":        to,
			"converted": present.Convert(amount, from, to, table),
			"rate":      present.CrossRate(from, to, table),
			"stale":     snap.Stale(),
		})
	})

	v1.Get("/weather/search", func(c *fiber.Ctx) error {
		snap := deps.Board.Snapshot()
		matches := board.Search(snap.Data, c.Query("q"))
		return c.JSON(fiber.Map{
			"data":    matches,
			"summary": board.Summarise(matches),
			"stale":   snap.Stale(),
		})
	})

	v1.Get("/weather/summary", func(c *fiber.Ctx) error {
		snap := deps.Board.Snapshot()
		return c.JSON(board.Summarise(snap.Data))
	})

	registerNotificationRoutes(v1, deps)
}

func registerNotificationRoutes(v1 fiber.Router, deps Deps) {
	v1.Get("/notifications", func(c *fiber.Ctx) error {
		filter := notify.Filter(c.Query("filter", string(notify.FilterAll)))
		return c.JSON(fiber.Map{
			"notifications": deps.Notifications.List(filter),
			"counts":        deps.Notifications.Counts(),
		})
	})

	v1.Post("/notifications", func(c *fiber.Ctx) error {
		var n notify.Notification
		if err := c.BodyParser(&n); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !notify.ValidCategory(n.Category) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown notification type")
		}
		if n.ID == 0 {
			n.ID = time.Now().UnixMilli()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = time.Now().UTC()
		}
		if n.Priority == "" {
			n.Priority = notify.PriorityMedium
		}
		if err := deps.Notifications.Create(c.Context(), n); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	})

	v1.Post("/notifications/read-all", func(c *fiber.Ctx) error {
		if err := deps.Notifications.MarkAllRead(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(deps.Notifications.Counts())
	})

	v1.Post("/notifications/:id/read", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be an integer")
		}
		if err := deps.Notifications.MarkRead(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(deps.Notifications.Counts())
	})

	v1.Delete("/notifications/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "id must be an integer")
		}
		if err := deps.Notifications.Delete(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(deps.Notifications.Counts())
	})

	// Destructive: requires explicit ?confirm=true.
	v1.Delete("/notifications", func(c *fiber.Ctx) error {
		if c.Query("confirm") != "true" {
			return fiber.NewError(fiber.StatusBadRequest, "clearing all notifications requires confirm=true")
		}
		if err := deps.Notifications.DeleteAll(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(deps.Notifications.Counts())
	})

	v1.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(deps.Settings.Current())
	})

	v1.Post("/settings/:key/toggle", func(c *fiber.Ctx) error {
		updated, err := deps.Settings.Toggle(c.Context(), c.Params("key"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(updated)
	})
}
