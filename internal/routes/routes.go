package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/txreplay/internal/config"
	"github.com/congo-pay/txreplay/internal/middleware"
	"github.com/congo-pay/txreplay/internal/replay"
)

// replaysPerMinute caps uploads per client IP when Redis is configured.
const replaysPerMinute = 30

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// are optional in development.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Replay *replay.Service
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Replay == nil {
		return fmt.Errorf("replay service is required")
	}
	if !d.Cfg.IsDev() && d.Cfg.APIKeyHash == "" {
		return fmt.Errorf("API_KEY_HASH is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	handlers := []fiber.Handler{
		middleware.APIKeyAuth(d.Cfg.APIKeyHash),
		middleware.RateLimit(d.Cache, "replay", replaysPerMinute),
	}
	if d.Cache != nil {
		handlers = append(handlers, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	RegisterReplayRoutes(api, replay.NewHandler(d.Replay), handlers...)

	return nil
}
