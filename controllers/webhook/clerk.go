package webhookController

import (
	"encoding/json"
	"lms/database"
	"lms/gateway"
	"lms/middleware"
	"lms/models"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// ClerkWebhookController syncs identity provider user events into the
// local user table.
type ClerkWebhookController struct {
	Clerk *gateway.ClerkClient
}

func NewClerkWebhookController(clerk *gateway.ClerkClient) *ClerkWebhookController {
	return &ClerkWebhookController{Clerk: clerk}
}

type clerkUserEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// Handle verifies and applies a user.created / user.updated / user.deleted
// event. Unknown event types are acknowledged without any state change.
func (h *ClerkWebhookController) Handle(c *fiber.Ctx) error {
	err := h.Clerk.VerifyWebhook(
		c.Body(),
		c.Get("svix-id"),
		c.Get("svix-timestamp"),
		c.Get("svix-signature"),
	)
	if err != nil {
		log.Printf("clerk webhook verification failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Webhook signature verification failed!", nil)
	}

	var event clerkUserEvent
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid event payload!", nil)
	}

	switch event.Type {
	case "user.created", "user.updated":
		email := ""
		if len(event.Data.EmailAddresses) > 0 {
			email = event.Data.EmailAddresses[0].EmailAddress
		}
		user := models.User{
			ID:       event.Data.ID,
			Name:     strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName),
			Email:    email,
			ImageURL: event.Data.ImageURL,
		}
		err := database.Database.Db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "image_url", "updated_at"}),
		}).Create(&user).Error
		if err != nil {
			log.Printf("clerk webhook: failed to upsert user %s: %v", event.Data.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sync user!", nil)
		}
		log.Printf("clerk webhook: user %s synced (%s)", event.Data.ID, event.Type)

	case "user.deleted":
		if err := database.Database.Db.Delete(&models.User{}, "id = ?", event.Data.ID).Error; err != nil {
			log.Printf("clerk webhook: failed to delete user %s: %v", event.Data.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
		}
		log.Printf("clerk webhook: user %s deleted", event.Data.ID)

	default:
		log.Printf("clerk webhook: unhandled event type %s", event.Type)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"received": true,
	})
}
