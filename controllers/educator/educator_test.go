package educatorController

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/gateway"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	educatorValidator "lms/validators/educator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeClerk serves user lookups with a fixed role and records metadata patches
type fakeClerk struct {
	role    string
	patched bool
}

func (f *fakeClerk) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPatch {
			f.patched = true
			f.role = gateway.RoleEducator
			fmt.Fprint(w, `{"id":"user_1"}`)
			return
		}
		fmt.Fprintf(w, `{"id":"user_1","public_metadata":{"role":%q}}`, f.role)
	}))
}

func setupEducatorApp(t *testing.T, clerkRole string) (*fiber.App, *fakeClerk) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.Nil(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	fake := &fakeClerk{role: clerkRole}
	server := fake.server()
	t.Cleanup(server.Close)

	clerk := gateway.NewClerkClient("sk_clerk", "").SetBaseURL(server.URL)
	controller := NewEducatorController(clerk, utils.NewMediaStore(t.TempDir(), "/uploads"))

	app := fiber.New()
	api := app.Group("/api/educator", middleware.JWTMiddleware)
	api.Get("/role", controller.CheckRole)
	api.Get("/update-role", controller.UpdateRole)

	requireEducator := middleware.RequireEducator(clerk)
	api.Post("/add-course", requireEducator, educatorValidator.AddCourse(), controller.AddCourse)
	api.Get("/courses", requireEducator, controller.GetCourses)
	api.Get("/dashboard", requireEducator, controller.Dashboard)
	api.Get("/enrolled-students", requireEducator, controller.EnrolledStudents)

	return app, fake
}

func educatorRequest(t *testing.T, target string) *http.Request {
	token, err := middleware.GenerateJWT("user_1", "Test Educator", "educator@example.com")
	require.Nil(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	var body map[string]interface{}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestCheckRoleEducator(t *testing.T) {
	app, _ := setupEducatorApp(t, gateway.RoleEducator)

	resp, err := app.Test(educatorRequest(t, "/api/educator/role"), -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["isEducator"])
	assert.Equal(t, gateway.RoleEducator, body["role"])
}

func TestCheckRoleStudent(t *testing.T) {
	app, _ := setupEducatorApp(t, "")

	resp, err := app.Test(educatorRequest(t, "/api/educator/role"), -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["isEducator"])
}

func TestUpdateRolePromotes(t *testing.T) {
	app, fake := setupEducatorApp(t, "")

	resp, err := app.Test(educatorRequest(t, "/api/educator/update-role"), -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, fake.patched)

	// The new role takes effect on the next gated request
	resp, err = app.Test(educatorRequest(t, "/api/educator/courses"), -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestEducatorRoutesRejectStudents(t *testing.T) {
	app, _ := setupEducatorApp(t, "")

	for _, target := range []string{
		"/api/educator/courses",
		"/api/educator/dashboard",
		"/api/educator/enrolled-students",
	} {
		resp, err := app.Test(educatorRequest(t, target), -1)
		require.Nil(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, target)
	}
}

func TestEducatorRoutesRequireAuth(t *testing.T) {
	app, _ := setupEducatorApp(t, gateway.RoleEducator)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/educator/dashboard", nil), -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDashboard(t *testing.T) {
	app, _ := setupEducatorApp(t, gateway.RoleEducator)
	db := database.Database.Db

	course := models.Course{EducatorID: "user_1", Title: "Go from Scratch", Price: 100, IsPublished: true}
	require.Nil(t, db.Create(&course).Error)

	student := models.User{ID: "student_1", Name: "Test Student", Email: "student@example.com"}
	require.Nil(t, db.Create(&student).Error)
	require.Nil(t, db.Create(&models.Enrollment{UserID: student.ID, CourseID: course.ID}).Error)

	require.Nil(t, db.Create(&models.Purchase{
		ID: uuid.NewString(), UserID: student.ID, CourseID: course.ID,
		Amount: 75, Status: models.PurchaseCompleted,
	}).Error)
	// Pending purchases must not count toward earnings
	require.Nil(t, db.Create(&models.Purchase{
		ID: uuid.NewString(), UserID: student.ID, CourseID: course.ID,
		Amount: 75, Status: models.PurchasePending,
	}).Error)

	resp, err := app.Test(educatorRequest(t, "/api/educator/dashboard"), -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["totalCourses"])
	assert.Equal(t, float64(75), data["totalEarnings"])

	students := data["enrolledStudentsData"].([]interface{})
	require.Len(t, students, 1)
	assert.Equal(t, "Go from Scratch", students[0].(map[string]interface{})["courseTitle"])
}

func TestEnrolledStudents(t *testing.T) {
	app, _ := setupEducatorApp(t, gateway.RoleEducator)
	db := database.Database.Db

	course := models.Course{EducatorID: "user_1", Title: "Go from Scratch", Price: 100, IsPublished: true}
	require.Nil(t, db.Create(&course).Error)
	student := models.User{ID: "student_1", Name: "Test Student", Email: "student@example.com"}
	require.Nil(t, db.Create(&student).Error)
	require.Nil(t, db.Create(&models.Purchase{
		ID: uuid.NewString(), UserID: student.ID, CourseID: course.ID,
		Amount: 100, Status: models.PurchaseCompleted,
	}).Error)

	resp, err := app.Test(educatorRequest(t, "/api/educator/enrolled-students"), -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].([]interface{})
	require.Len(t, data, 1)
	entry := data[0].(map[string]interface{})
	assert.Equal(t, "Go from Scratch", entry["courseTitle"])
	assert.Equal(t, "Test Student", entry["student"].(map[string]interface{})["name"])
}
