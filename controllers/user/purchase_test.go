package userController

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/gateway"
	"lms/middleware"
	"lms/models"
	"lms/services"
	userValidator "lms/validators/user"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPurchaseApp(t *testing.T, stripe *gateway.StripeClient) *fiber.App {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.Nil(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	controller := NewPurchaseController(services.NewCheckoutService(db, stripe, "usd"))

	app := fiber.New()
	api := app.Group("/api/user", middleware.JWTMiddleware)
	api.Post("/purchase", userValidator.Purchase(), controller.Purchase)
	return app
}

func TestPurchase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_1","url":"https://checkout.test/cs_1"}`)
	}))
	defer server.Close()

	stripe := gateway.NewStripeClient("sk_test_123", "whsec_test").SetBaseURL(server.URL)
	app := setupPurchaseApp(t, stripe)

	db := database.Database.Db
	require.Nil(t, db.Create(&models.User{ID: "user_1", Name: "Test Student", Email: "student@example.com"}).Error)
	course := models.Course{EducatorID: "edu_1", Title: "Go from Scratch", Price: 100, IsPublished: true}
	require.Nil(t, db.Create(&course).Error)

	body := []byte(fmt.Sprintf(`{"courseId":%d}`, course.ID))
	req := authedRequest(t, http.MethodPost, "/api/user/purchase", body)
	req.Header.Set("Origin", "https://app.test")

	resp, err := app.Test(req, -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://checkout.test/cs_1", decodeEnvelope(t, resp)["session_url"])

	var purchase models.Purchase
	require.Nil(t, db.First(&purchase, "user_id = ?", "user_1").Error)
	assert.Equal(t, models.PurchasePending, purchase.Status)
}

func TestPurchaseAlreadyEnrolled(t *testing.T) {
	stripe := gateway.NewStripeClient("sk_test_123", "whsec_test")
	app := setupPurchaseApp(t, stripe)

	db := database.Database.Db
	require.Nil(t, db.Create(&models.User{ID: "user_1", Name: "Test Student"}).Error)
	course := models.Course{EducatorID: "edu_1", Title: "Go from Scratch", Price: 100, IsPublished: true}
	require.Nil(t, db.Create(&course).Error)
	require.Nil(t, db.Create(&models.Enrollment{UserID: "user_1", CourseID: course.ID}).Error)

	body := []byte(fmt.Sprintf(`{"courseId":%d}`, course.ID))
	req := authedRequest(t, http.MethodPost, "/api/user/purchase", body)
	req.Header.Set("Origin", "https://app.test")

	resp, err := app.Test(req, -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestPurchaseMissingOrigin(t *testing.T) {
	stripe := gateway.NewStripeClient("sk_test_123", "whsec_test")
	app := setupPurchaseApp(t, stripe)

	body := []byte(`{"courseId":1}`)
	resp, err := app.Test(authedRequest(t, http.MethodPost, "/api/user/purchase", body), -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestPurchaseGatewayDown(t *testing.T) {
	stripe := gateway.NewStripeClient("", "")
	app := setupPurchaseApp(t, stripe)

	require.Nil(t, database.Database.Db.Create(&models.User{ID: "user_1", Name: "Test Student"}).Error)

	body := []byte(`{"courseId":1}`)
	req := authedRequest(t, http.MethodPost, "/api/user/purchase", body)
	req.Header.Set("Origin", "https://app.test")

	resp, err := app.Test(req, -1)
	require.Nil(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
