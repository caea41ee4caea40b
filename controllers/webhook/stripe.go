package webhookController

import (
	"errors"
	"lms/gateway"
	"lms/middleware"
	"lms/services"
	"log"

	"github.com/gofiber/fiber/v2"
)

// StripeWebhookController receives payment gateway events. Verification
// runs on the exact raw request bytes before anything is parsed or
// mutated; a failed signature ends the request with no side effects.
type StripeWebhookController struct {
	Stripe     *gateway.StripeClient
	Reconciler *services.Reconciler
}

func NewStripeWebhookController(stripe *gateway.StripeClient, reconciler *services.Reconciler) *StripeWebhookController {
	return &StripeWebhookController{Stripe: stripe, Reconciler: reconciler}
}

// Handle processes one webhook delivery. Non-2xx responses tell the
// gateway to redeliver; processing is idempotent so replays are safe.
func (h *StripeWebhookController) Handle(c *fiber.Ctx) error {
	signature := c.Get("stripe-signature")
	if signature == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Missing signature header!", nil)
	}

	event, err := h.Stripe.VerifyWebhook(c.Body(), signature)
	if err != nil {
		log.Printf("stripe webhook verification failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Webhook signature verification failed!", nil)
	}

	if err := h.Reconciler.HandleEvent(c.UserContext(), event); err != nil {
		log.Printf("stripe webhook %s (%s) failed: %v", event.ID, event.Type, err)
		switch {
		case errors.Is(err, services.ErrSessionNotFound),
			errors.Is(err, services.ErrPurchaseNotFound),
			errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
		case errors.Is(err, services.ErrMissingPurchaseRef):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process event!", nil)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"received": true,
	})
}
