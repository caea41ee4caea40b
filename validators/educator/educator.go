package educatorValidator

import (
	"encoding/json"
	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// LecturePayload is one lecture inside a submitted course
type LecturePayload struct {
	Title         string `json:"lectureTitle" validate:"required"`
	LectureURL    string `json:"lectureUrl" validate:"required,url"`
	Duration      int    `json:"lectureDuration" validate:"gte=0"`
	IsPreviewFree bool   `json:"isPreviewFree"`
	Order         int    `json:"lectureOrder" validate:"gte=0"`
}

// ChapterPayload is one chapter inside a submitted course
type ChapterPayload struct {
	Title    string           `json:"chapterTitle" validate:"required"`
	Order    int              `json:"chapterOrder" validate:"gte=0"`
	Lectures []LecturePayload `json:"chapterContent" validate:"dive"`
}

// CoursePayload is the courseData JSON field of the multipart add-course
// request
type CoursePayload struct {
	Title       string           `json:"courseTitle" validate:"required,min=3"`
	Description string           `json:"courseDescription"`
	Price       float64          `json:"coursePrice" validate:"gte=0"`
	Discount    uint             `json:"discount" validate:"lte=100"`
	IsPublished bool             `json:"isPublished"`
	Chapters    []ChapterPayload `json:"courseContent" validate:"dive"`
}

// AddCourse validates the multipart course submission: a courseData JSON
// field plus an image file for the thumbnail.
func AddCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.FormValue("courseData")
		if raw == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "courseData field is required!", nil)
		}

		payload := new(CoursePayload)
		if err := json.Unmarshal([]byte(raw), payload); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid courseData JSON!", nil)
		}

		if err := validate.Struct(payload); err != nil {
			errors := make(map[string]string)
			if fieldErrors, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range fieldErrors {
					errors[fe.Field()] = "Failed validation: " + fe.Tag()
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		if _, err := c.FormFile("image"); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Thumbnail not attached!", nil)
		}

		c.Locals("validatedCourse", payload)
		return c.Next()
	}
}
