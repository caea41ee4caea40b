package userValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// Purchase validates the checkout request body and the Origin header,
// which the checkout flow needs to build redirect URLs.
func Purchase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"courseId"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == 0 {
			errors["courseId"] = "Course ID is required!"
		}

		origin := c.Get("Origin")
		if origin == "" {
			errors["origin"] = "Origin header is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", reqData.CourseID)
		c.Locals("origin", origin)
		return c.Next()
	}
}

// UpdateProgress validates a lecture completion request
func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID  uint `json:"courseId"`
			LectureID uint `json:"lectureId"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == 0 {
			errors["courseId"] = "Course ID is required!"
		}
		if reqData.LectureID == 0 {
			errors["lectureId"] = "Lecture ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", reqData.CourseID)
		c.Locals("lectureID", reqData.LectureID)
		return c.Next()
	}
}

// AddRating validates a course rating submission
func AddRating() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID uint `json:"courseId"`
			Rating   uint `json:"rating"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == 0 {
			errors["courseId"] = "Course ID is required!"
		}
		if reqData.Rating < 1 || reqData.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", reqData.CourseID)
		c.Locals("rating", reqData.Rating)
		return c.Next()
	}
}

// GetProgress validates the course id path parameter
func GetProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := c.ParamsInt("courseId")
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", uint(courseID))
		return c.Next()
	}
}
