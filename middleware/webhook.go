package middleware

import (
	"crypto/subtle"

	"lms/config"

	"github.com/gofiber/fiber/v2"
)

// WebhookAuth gates webhook endpoints behind the shared delivery secret.
// Deliveries are assumed to be cryptographically verified upstream; this is
// the trust boundary the core relies on, not a re-verification.
func WebhookAuth(c *fiber.Ctx) error {
	secret := config.AppConfig.WebhookSecret
	provided := c.Get("X-Webhook-Secret")

	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(provided)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Invalid webhook credentials",
		})
	}

	return c.Next()
}
