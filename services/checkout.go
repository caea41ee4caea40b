package services

import (
	"context"
	"fmt"
	"lms/gateway"
	"lms/models"
	"lms/utils"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutService starts the purchase flow: it records a pending Purchase
// and asks the payment gateway for a hosted checkout session. The purchase
// id travels as session metadata and is the only correlation key the
// webhook path has.
type CheckoutService struct {
	db       *gorm.DB
	stripe   *gateway.StripeClient
	currency string
}

func NewCheckoutService(db *gorm.DB, stripe *gateway.StripeClient, currency string) *CheckoutService {
	return &CheckoutService{db: db, stripe: stripe, currency: currency}
}

// InitiatePurchase validates the request, creates a pending Purchase with
// the discounted amount and returns the gateway redirect URL.
func (s *CheckoutService) InitiatePurchase(ctx context.Context, userID string, courseID uint, origin string) (string, error) {
	if !s.stripe.Configured() {
		return "", gateway.ErrStripeNotConfigured
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return "", ErrUserNotFound
	}

	var course models.Course
	if err := s.db.WithContext(ctx).Where("id = ? AND is_published = ?", courseID, true).First(&course).Error; err != nil {
		return "", ErrCourseNotFound
	}

	var enrolled int64
	s.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&enrolled)
	if enrolled > 0 {
		return "", ErrAlreadyEnrolled
	}

	finalPrice := utils.FinalPrice(course.Price, course.Discount)

	purchase := models.Purchase{
		ID:       uuid.NewString(),
		UserID:   userID,
		CourseID: courseID,
		Amount:   finalPrice,
		Status:   models.PurchasePending,
	}
	if err := s.db.WithContext(ctx).Create(&purchase).Error; err != nil {
		return "", fmt.Errorf("create purchase: %w", err)
	}

	origin = strings.TrimRight(origin, "/")
	session, err := s.stripe.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		AmountMinor: utils.MinorUnits(finalPrice),
		Currency:    s.currency,
		ProductName: course.Title,
		SuccessURL:  origin + "/loading/my-enrollments",
		CancelURL:   origin + "/",
		PurchaseID:  purchase.ID,
	})
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	return session.URL, nil
}
