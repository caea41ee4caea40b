package webhookRoutes

import (
	controllers "lms/controllers/webhook"

	"github.com/gofiber/fiber/v2"
)

// SetupWebhookRoutes sets up provider callback routes. These are unauthenticated;
// integrity comes from the providers' signatures over the raw body.
func SetupWebhookRoutes(app *fiber.App, stripe *controllers.StripeWebhookController, clerk *controllers.ClerkWebhookController) {
	app.Post("/stripe", stripe.Handle)
	app.Post("/clerk", clerk.Handle)
}
