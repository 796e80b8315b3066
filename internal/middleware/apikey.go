package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyAuth requires a bearer key matching the bcrypt hash. An empty hash
// disables the check.
func APIKeyAuth(hash string) fiber.Handler {
	if hash == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	hashed := []byte(hash)
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		key := strings.TrimSpace(authz[len("Bearer "):])
		if key == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		if err := bcrypt.CompareHashAndPassword(hashed, []byte(key)); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid api key")
		}
		return c.Next()
	}
}
