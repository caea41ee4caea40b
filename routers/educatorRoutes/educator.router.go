package educatorRoutes

import (
	controllers "lms/controllers/educator"
	"lms/gateway"
	"lms/middleware"
	validators "lms/validators/educator"

	"github.com/gofiber/fiber/v2"
)

// SetupEducatorRoutes sets up educator routes. Role checks hit the
// identity gateway on every request.
func SetupEducatorRoutes(app *fiber.App, educator *controllers.EducatorController, clerk *gateway.ClerkClient) {
	educatorGroup := app.Group("/api/educator", middleware.JWTMiddleware)

	// Role management: any signed-in user can check or request the role
	educatorGroup.Get("/role", educator.CheckRole)
	educatorGroup.Get("/update-role", educator.UpdateRole)

	// Everything below requires the educator role
	requireEducator := middleware.RequireEducator(clerk)
	educatorGroup.Post("/add-course", requireEducator, validators.AddCourse(), educator.AddCourse)
	educatorGroup.Get("/courses", requireEducator, educator.GetCourses)
	educatorGroup.Get("/dashboard", requireEducator, educator.Dashboard)
	educatorGroup.Get("/enrolled-students", requireEducator, educator.EnrolledStudents)
}
