package courseController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAllCourses lists published courses for the public catalog. Course
// structure and enrollment details are left out of the listing.
func GetAllCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := database.Database.Db.Where("is_published = ?", true).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	type CourseSummary struct {
		models.Course
		EnrolledCount int64   `json:"enrolled_count"`
		AverageRating float64 `json:"average_rating"`
	}

	result := make([]CourseSummary, len(courses))
	for i, course := range courses {
		var enrolled int64
		database.Database.Db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrolled)

		var avg float64
		database.Database.Db.Model(&models.Rating{}).Where("course_id = ?", course.ID).
			Select("COALESCE(AVG(value), 0)").Scan(&avg)

		result[i] = CourseSummary{Course: course, EnrolledCount: enrolled, AverageRating: avg}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", result)
}

// GetCourseByID returns the full course structure. Lecture content URLs are
// blanked for non-preview lectures unless the requester is enrolled.
func GetCourseByID(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_published = ?", courseID, true).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		Preload("Chapters.Lectures", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc") }).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	isEnrolled := false
	if userID := middleware.OptionalUserID(c); userID != "" {
		var count int64
		database.Database.Db.Model(&models.Enrollment{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count)
		isEnrolled = count > 0
	}

	if !isEnrolled {
		for ci := range course.Chapters {
			for li := range course.Chapters[ci].Lectures {
				if !course.Chapters[ci].Lectures[li].IsPreviewFree {
					course.Chapters[ci].Lectures[li].LectureURL = ""
				}
			}
		}
	}

	var ratings []models.Rating
	database.Database.Db.Where("course_id = ?", courseID).Find(&ratings)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":      course,
		"ratings":     ratings,
		"is_enrolled": isEnrolled,
	})
}
