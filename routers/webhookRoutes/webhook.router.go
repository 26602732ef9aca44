package webhookRoutes

import (
	controllers "lms/controllers/webhook"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupWebhookRoutes sets up the external notification routes behind the
// shared-secret trust boundary.
func SetupWebhookRoutes(app *fiber.App, ctrl *controllers.WebhookController) {
	webhookGroup := app.Group("/webhooks", middleware.WebhookAuth)

	webhookGroup.Post("/payment", ctrl.PaymentWebhook)
	webhookGroup.Post("/identity", ctrl.IdentityWebhook)
}
