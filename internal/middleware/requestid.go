package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID ensures each request has a stable request identifier. A caller
// supplied X-Request-ID is kept; otherwise a UUID is generated. The id is
// echoed on the response either way.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Locals(requestIDHeader, reqID)
		c.Set(requestIDHeader, reqID)

		return c.Next()
	}
}

// RequestIDFrom returns the id stored by RequestID, or "" outside it.
func RequestIDFrom(c *fiber.Ctx) string {
	reqID, _ := c.Locals(requestIDHeader).(string)
	return reqID
}
