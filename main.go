package main

import (
	"lms/config"
	educatorController "lms/controllers/educator"
	userController "lms/controllers/user"
	webhookController "lms/controllers/webhook"
	"lms/database"
	"lms/gateway"
	"lms/routers/courseRoutes"
	"lms/routers/educatorRoutes"
	"lms/routers/userRoutes"
	"lms/routers/webhookRoutes"
	"lms/services"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	cfg := config.AppConfig

	// Gateway clients are constructed once here and injected everywhere
	stripeClient := gateway.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	clerkClient := gateway.NewClerkClient(cfg.ClerkSecretKey, cfg.ClerkWebhookSecret)
	mailer := utils.NewMailer(cfg.SendgridAPIKey, cfg.EmailSender)
	media := utils.NewMediaStore(cfg.MediaDir, cfg.MediaBaseURL)

	db := database.Database.Db
	checkout := services.NewCheckoutService(db, stripeClient, cfg.Currency)
	reconciler := services.NewReconciler(db, stripeClient, mailer)

	purchaseCtl := userController.NewPurchaseController(checkout)
	educatorCtl := educatorController.NewEducatorController(clerkClient, media)
	stripeWebhookCtl := webhookController.NewStripeWebhookController(stripeClient, reconciler)
	clerkWebhookCtl := webhookController.NewClerkWebhookController(clerkClient)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization,Origin,stripe-signature,svix-id,svix-timestamp,svix-signature",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded media
	app.Static(cfg.MediaBaseURL, cfg.MediaDir)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API working")
	})

	webhookRoutes.SetupWebhookRoutes(app, stripeWebhookCtl, clerkWebhookCtl)
	courseRoutes.SetupCourseRoutes(app)
	userRoutes.SetupUserRoutes(app, purchaseCtl)
	educatorRoutes.SetupEducatorRoutes(app, educatorCtl, clerkClient)

	// Periodic repair pass for purchases the webhook never resolved
	if stripeClient.Configured() {
		reconciler.StartRepairScheduler(cfg.ReconcileEveryMin)
	}

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
