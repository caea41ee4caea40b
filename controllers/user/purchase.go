package userController

import (
	"errors"
	"lms/gateway"
	"lms/middleware"
	"lms/services"
	"log"

	"github.com/gofiber/fiber/v2"
)

// PurchaseController carries the checkout service; the gateway client
// behind it is constructed once in main and injected here.
type PurchaseController struct {
	Checkout *services.CheckoutService
}

func NewPurchaseController(checkout *services.CheckoutService) *PurchaseController {
	return &PurchaseController{Checkout: checkout}
}

// Purchase starts a checkout for a course and returns the gateway's
// redirect URL.
func (p *PurchaseController) Purchase(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	origin := c.Locals("origin").(string)

	sessionURL, err := p.Checkout.InitiatePurchase(c.UserContext(), userID, courseID, origin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		case errors.Is(err, services.ErrCourseNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		case errors.Is(err, gateway.ErrStripeNotConfigured):
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Payment provider is not configured!", nil)
		}
		log.Printf("purchase failed for user %s, course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start checkout!", nil)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"session_url": sessionURL,
	})
}
