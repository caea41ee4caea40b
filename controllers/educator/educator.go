package educatorController

import (
	"lms/database"
	"lms/gateway"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	educatorValidator "lms/validators/educator"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EducatorController handles educator-facing operations. The identity
// gateway client and media store are injected at startup.
type EducatorController struct {
	Clerk *gateway.ClerkClient
	Media *utils.MediaStore
}

func NewEducatorController(clerk *gateway.ClerkClient, media *utils.MediaStore) *EducatorController {
	return &EducatorController{Clerk: clerk, Media: media}
}

// CheckRole reports the subject's current role attribute
func (e *EducatorController) CheckRole(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
	}

	role, err := e.Clerk.GetUserRole(c.UserContext(), userID)
	if err != nil {
		if err == gateway.ErrClerkNotConfigured {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Identity provider is not configured!", nil)
		}
		log.Printf("role check failed for %s: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid authentication. Please sign in again.", nil)
	}

	message := "You are not an educator. Update your role to add courses."
	if role == gateway.RoleEducator {
		message = "You are an educator. You can add courses."
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"role":       role,
		"isEducator": role == gateway.RoleEducator,
		"message":    message,
	})
}

// UpdateRole promotes the subject to educator in the identity provider
func (e *EducatorController) UpdateRole(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
	}

	if err := e.Clerk.SetUserRole(c.UserContext(), userID, gateway.RoleEducator); err != nil {
		if err == gateway.ErrClerkNotConfigured {
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Identity provider is not configured!", nil)
		}
		log.Printf("role update failed for %s: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update role!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "You can publish a course now!", nil)
}

// AddCourse creates a course with its chapters and lectures and stores the
// thumbnail in the media store.
func (e *EducatorController) AddCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
	}

	payload, ok := c.Locals("validatedCourse").(*educatorValidator.CoursePayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	imageFile, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Thumbnail not attached!", nil)
	}

	thumbnailURL, err := e.Media.SaveThumbnail(imageFile)
	if err != nil {
		log.Printf("thumbnail upload failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store thumbnail!", nil)
	}

	course := models.Course{
		EducatorID:   userID,
		Title:        payload.Title,
		Description:  payload.Description,
		Price:        payload.Price,
		Discount:     payload.Discount,
		IsPublished:  payload.IsPublished,
		ThumbnailURL: thumbnailURL,
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		for _, ch := range payload.Chapters {
			chapter := models.Chapter{
				CourseID:   course.ID,
				Title:      ch.Title,
				OrderIndex: ch.Order,
			}
			if err := tx.Create(&chapter).Error; err != nil {
				return err
			}
			for _, lec := range ch.Lectures {
				lecture := models.Lecture{
					ChapterID:     chapter.ID,
					CourseID:      course.ID,
					Title:         lec.Title,
					LectureURL:    lec.LectureURL,
					Duration:      lec.Duration,
					IsPreviewFree: lec.IsPreviewFree,
					OrderIndex:    lec.Order,
				}
				if err := tx.Create(&lecture).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("course creation failed for educator %s: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course added successfully!", fiber.Map{
		"courseId": course.ID,
	})
}

// GetCourses lists the educator's own courses
func (e *EducatorController) GetCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.Where("educator_id = ?", userID).
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// Dashboard aggregates course count, earnings from completed purchases and
// the enrolled student list across the educator's courses.
func (e *EducatorController) Dashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.Where("educator_id = ?", userID).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	courseIDs := make([]uint, len(courses))
	titleByID := make(map[uint]string, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
		titleByID[course.ID] = course.Title
	}

	var totalEarnings float64
	if len(courseIDs) > 0 {
		database.Database.Db.Model(&models.Purchase{}).
			Where("course_id IN ? AND status = ?", courseIDs, models.PurchaseCompleted).
			Select("COALESCE(SUM(amount), 0)").Scan(&totalEarnings)
	}

	type EnrolledStudent struct {
		CourseTitle string `json:"courseTitle"`
		Name        string `json:"name"`
		ImageURL    string `json:"imageUrl"`
	}

	enrolledStudents := []EnrolledStudent{}
	if len(courseIDs) > 0 {
		var enrollments []models.Enrollment
		database.Database.Db.Where("course_id IN ?", courseIDs).Find(&enrollments)

		for _, enrollment := range enrollments {
			var student models.User
			if err := database.Database.Db.Select("name, image_url").First(&student, "id = ?", enrollment.UserID).Error; err != nil {
				continue
			}
			enrolledStudents = append(enrolledStudents, EnrolledStudent{
				CourseTitle: titleByID[enrollment.CourseID],
				Name:        student.Name,
				ImageURL:    student.ImageURL,
			})
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"totalCourses":         len(courses),
		"totalEarnings":        totalEarnings,
		"enrolledStudentsData": enrolledStudents,
	})
}

// EnrolledStudents lists completed purchases across the educator's courses
// with student details and purchase dates.
func (e *EducatorController) EnrolledStudents(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok || userID == "" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.Where("educator_id = ?", userID).Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	courseIDs := make([]uint, len(courses))
	titleByID := make(map[uint]string, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
		titleByID[course.ID] = course.Title
	}

	type StudentPurchase struct {
		Student      models.User `json:"student"`
		CourseTitle  string      `json:"courseTitle"`
		PurchaseDate string      `json:"purchaseDate"`
	}

	result := []StudentPurchase{}
	if len(courseIDs) > 0 {
		var purchases []models.Purchase
		if err := database.Database.Db.
			Where("course_id IN ? AND status = ?", courseIDs, models.PurchaseCompleted).
			Order("created_at desc").Find(&purchases).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch purchases!", nil)
		}

		for _, purchase := range purchases {
			var student models.User
			if err := database.Database.Db.First(&student, "id = ?", purchase.UserID).Error; err != nil {
				continue
			}
			result = append(result, StudentPurchase{
				Student:      student,
				CourseTitle:  titleByID[purchase.CourseID],
				PurchaseDate: purchase.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled students fetched successfully!", result)
}
