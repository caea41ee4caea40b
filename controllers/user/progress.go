package userController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// UpdateCourseProgress marks a lecture completed for the user. Re-marking
// an already completed lecture is reported, not duplicated.
func UpdateCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	lectureID := c.Locals("lectureID").(uint)

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var lecture models.Lecture
	if err := database.Database.Db.Where("id = ? AND course_id = ?", lectureID, courseID).First(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	completion := models.LectureCompletion{
		UserID:    userID,
		CourseID:  courseID,
		LectureID: lectureID,
	}
	res := database.Database.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion)
	if res.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture already completed!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", completion)
}

// GetCourseProgress returns completed lecture ids and a live percentage.
// The total is always counted against the course's current lectures, so the
// percentage tracks content added or removed after enrollment.
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var completions []models.LectureCompletion
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&completions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	completedIDs := make([]uint, len(completions))
	for i, completion := range completions {
		completedIDs[i] = completion.LectureID
	}

	var totalLectures int64
	database.Database.Db.Model(&models.Lecture{}).Where("course_id = ?", courseID).Count(&totalLectures)

	percent := 0.0
	if totalLectures > 0 {
		percent = float64(len(completedIDs)) / float64(totalLectures) * 100
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"completed_lectures": completedIDs,
		"total_lectures":     totalLectures,
		"percent":            percent,
	})
}

// AddRating upserts the user's rating for a course they are enrolled in
func AddRating(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	value := c.Locals("rating").(uint)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment models.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only enrolled users can rate a course!", nil)
	}

	rating := models.Rating{
		UserID:   userID,
		CourseID: courseID,
		Value:    value,
	}
	// One rating per user per course; resubmission overwrites the value
	err := database.Database.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save rating!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rating saved successfully!", rating)
}
