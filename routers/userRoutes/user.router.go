package userRoutes

import (
	controllers "lms/controllers/user"
	"lms/middleware"
	validators "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up authenticated user routes
func SetupUserRoutes(app *fiber.App, purchase *controllers.PurchaseController) {
	userGroup := app.Group("/api/user", middleware.JWTMiddleware)

	userGroup.Get("/data", controllers.GetUserData)
	userGroup.Get("/enrolled-courses", controllers.GetEnrolledCourses)

	userGroup.Post("/purchase", validators.Purchase(), purchase.Purchase)

	userGroup.Post("/update-course-progress", validators.UpdateProgress(), controllers.UpdateCourseProgress)
	userGroup.Get("/get-course-progress/:courseId", validators.GetProgress(), controllers.GetCourseProgress)
	userGroup.Post("/add-rating", validators.AddRating(), controllers.AddRating)
}
