package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/txreplay/internal/replay"
)

// RegisterReplayRoutes wires the replay endpoint behind the given middlewares.
func RegisterReplayRoutes(r fiber.Router, h *replay.Handler, mw ...fiber.Handler) {
	handlers := make([]fiber.Handler, 0, len(mw)+1)
	handlers = append(handlers, mw...)
	r.Post("/replay", append(handlers, h.Replay)...)
}
