package models

import "gorm.io/gorm"

// Enrollment links a user to a course. The unique index makes enrollment an
// atomic add-to-set: a conflicting insert is a no-op, so replays of the same
// payment event cannot enroll twice. Both "the user's courses" and "the
// course's students" are views over these rows.
type Enrollment struct {
	gorm.Model
	UserID   string `json:"user_id" gorm:"uniqueIndex:ux_enrollments_user_course;not null"`
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:ux_enrollments_user_course;not null"`
}
