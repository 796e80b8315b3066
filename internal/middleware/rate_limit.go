package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimit caps requests per client IP per minute using a Redis counter
// under scope. It is a no-op without Redis and fails open on cache errors.
func RateLimit(cache *redis.Client, scope string, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 30
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		key := "rl:" + scope + ":" + c.IP()
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			c.Set(fiber.HeaderRetryAfter, "60")
			return fiber.NewError(http.StatusTooManyRequests, "too many replay requests, try again later")
		}
		return c.Next()
	}
}
