package services

import (
	"context"
	"fmt"
	"lms/gateway"
	"lms/models"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const providerStripe = "stripe"

// EnrollmentMailer sends the enrollment confirmation. Implemented by
// utils.Mailer; kept as an interface so the reconciler stays testable.
type EnrollmentMailer interface {
	Configured() bool
	SendEnrollmentEmail(toEmail, toName, courseTitle string) error
}

// Reconciler consumes payment gateway events and moves purchases from
// pending to a terminal state, enrolling the user on success.
//
// Every step after signature verification is safe to repeat: enrollment is
// a conflict-ignoring insert and status transitions are conditional updates
// guarded on the row still being pending, so redelivered or concurrently
// delivered events cannot double-apply.
type Reconciler struct {
	db     *gorm.DB
	stripe *gateway.StripeClient
	mailer EnrollmentMailer
}

func NewReconciler(db *gorm.DB, stripe *gateway.StripeClient, mailer EnrollmentMailer) *Reconciler {
	return &Reconciler{db: db, stripe: stripe, mailer: mailer}
}

// HandleEvent processes one verified webhook event. Unrecognized event
// types are acknowledged without any state change so the gateway does not
// redeliver them.
func (r *Reconciler) HandleEvent(ctx context.Context, event *gateway.Event) error {
	seen, err := r.eventSeen(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("check event dedup: %w", err)
	}
	if seen {
		log.Printf("webhook event %s already processed, acknowledging", event.ID)
		return nil
	}

	switch event.Type {
	case "payment_intent.succeeded":
		if err := r.handleIntentSucceeded(ctx, event.Data.Object.ID); err != nil {
			return err
		}
	case "payment_intent.payment_failed":
		if err := r.handleIntentFailed(ctx, event.Data.Object.ID); err != nil {
			return err
		}
	default:
		log.Printf("unhandled webhook event type %s, acknowledging", event.Type)
		return nil
	}

	return r.markEventProcessed(ctx, event)
}

func (r *Reconciler) handleIntentSucceeded(ctx context.Context, paymentIntentID string) error {
	purchaseID, err := r.purchaseIDForIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	return r.CompletePurchase(ctx, purchaseID)
}

func (r *Reconciler) handleIntentFailed(ctx context.Context, paymentIntentID string) error {
	purchaseID, err := r.purchaseIDForIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	return r.FailPurchase(ctx, purchaseID)
}

// purchaseIDForIntent resolves payment intent -> checkout session ->
// purchase id via the session's correlation metadata.
func (r *Reconciler) purchaseIDForIntent(ctx context.Context, paymentIntentID string) (string, error) {
	sessions, err := r.stripe.SessionsByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return "", fmt.Errorf("look up sessions for intent %s: %w", paymentIntentID, err)
	}
	if len(sessions) == 0 {
		return "", ErrSessionNotFound
	}

	purchaseID := sessions[0].Metadata["purchaseId"]
	if purchaseID == "" {
		return "", ErrMissingPurchaseRef
	}
	return purchaseID, nil
}

// CompletePurchase enrolls the purchase's user in its course and marks the
// purchase completed. Idempotent; also invoked by the repair pass.
func (r *Reconciler) CompletePurchase(ctx context.Context, purchaseID string) error {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).First(&purchase, "id = ?", purchaseID).Error; err != nil {
		return ErrPurchaseNotFound
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", purchase.UserID).Error; err != nil {
		return ErrUserNotFound
	}

	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", purchase.CourseID).Error; err != nil {
		return ErrCourseNotFound
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Atomic add-to-set: the unique (user_id, course_id) index plus the
		// conflict clause makes replays and concurrent deliveries no-ops.
		enrollment := models.Enrollment{UserID: user.ID, CourseID: course.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment).Error; err != nil {
			return fmt.Errorf("enroll user: %w", err)
		}

		// Conditional transition keeps the status monotonic: once completed
		// or failed, no event can overwrite it.
		res := tx.Model(&models.Purchase{}).
			Where("id = ? AND status = ?", purchase.ID, models.PurchasePending).
			Update("status", models.PurchaseCompleted)
		if res.Error != nil {
			return fmt.Errorf("complete purchase: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			log.Printf("purchase %s already in terminal state, skipping transition", purchase.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if r.mailer != nil && r.mailer.Configured() {
		go func(email, name, title string) {
			if err := r.mailer.SendEnrollmentEmail(email, name, title); err != nil {
				log.Printf("enrollment email to %s failed: %v", email, err)
			}
		}(user.Email, user.Name, course.Title)
	}

	log.Printf("purchase %s completed, user %s enrolled in course %d", purchase.ID, user.ID, course.ID)
	return nil
}

// FailPurchase marks a pending purchase failed. No enrollment side effects.
func (r *Reconciler) FailPurchase(ctx context.Context, purchaseID string) error {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).First(&purchase, "id = ?", purchaseID).Error; err != nil {
		return ErrPurchaseNotFound
	}

	res := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("id = ? AND status = ?", purchaseID, models.PurchasePending).
		Update("status", models.PurchaseFailed)
	if res.Error != nil {
		return fmt.Errorf("fail purchase: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Printf("purchase %s already in terminal state, skipping transition", purchaseID)
	}
	return nil
}

func (r *Reconciler) eventSeen(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("provider = ? AND event_id = ?", providerStripe, eventID).
		Count(&count).Error
	return count > 0, err
}

func (r *Reconciler) markEventProcessed(ctx context.Context, event *gateway.Event) error {
	record := models.WebhookEvent{
		Provider:    providerStripe,
		EventID:     event.ID,
		EventType:   event.Type,
		Payload:     datatypes.JSON([]byte(fmt.Sprintf(`{"object_id":%q}`, event.Data.Object.ID))),
		ProcessedAt: time.Now(),
	}
	// A concurrent delivery may have written the row first; processing is
	// idempotent, so losing that race is harmless.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}
