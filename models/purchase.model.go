package models

import "time"

// Purchase status values. A purchase starts pending and moves exactly once
// to completed or failed; both are terminal.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// Purchase records a checkout attempt for a course. The ID is generated
// locally and travels to the payment gateway as checkout session metadata;
// the webhook path uses it to correlate events back to this row. Purchases
// are never deleted.
type Purchase struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	CourseID  uint      `json:"course_id" gorm:"index;not null"`
	Amount    float64   `json:"amount"` // final post-discount price
	Status    string    `json:"status" gorm:"default:'pending';index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
