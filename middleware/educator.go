package middleware

import (
	"lms/gateway"
	"log"

	"github.com/gofiber/fiber/v2"
)

// RequireEducator returns a middleware that checks the subject's role
// against the identity gateway on every request. Roles are never cached
// locally, so a revoked educator loses access immediately.
func RequireEducator(clerk *gateway.ClerkClient) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userId").(string)
		if !ok || userID == "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required. Please sign in.", nil)
		}

		role, err := clerk.GetUserRole(c.UserContext(), userID)
		if err != nil {
			if err == gateway.ErrClerkNotConfigured {
				return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Identity provider is not configured!", nil)
			}
			log.Printf("educator check failed for %s: %v", userID, err)
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid authentication. Please sign in again.", nil)
		}

		if role != gateway.RoleEducator {
			return JsonResponse(c, fiber.StatusForbidden, false, "Unauthorized access. Educator role required.", nil)
		}

		return c.Next()
	}
}
