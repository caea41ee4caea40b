package models

import "gorm.io/gorm"

// Rating holds one rating per user per course, upserted on resubmission
type Rating struct {
	gorm.Model
	UserID   string `json:"user_id" gorm:"uniqueIndex:ux_ratings_user_course;not null"`
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:ux_ratings_user_course;not null"`
	Value    uint   `json:"value"` // 1-5
}
