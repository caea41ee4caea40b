package models

import "gorm.io/gorm"

// LectureCompletion marks a lecture as completed by a user. The unique index
// forbids duplicates; progress percentage is always derived from the
// course's current lecture count, never cached here.
type LectureCompletion struct {
	gorm.Model
	UserID    string `json:"user_id" gorm:"uniqueIndex:ux_completions_user_course_lecture;not null"`
	CourseID  uint   `json:"course_id" gorm:"uniqueIndex:ux_completions_user_course_lecture;not null"`
	LectureID uint   `json:"lecture_id" gorm:"uniqueIndex:ux_completions_user_course_lecture;not null"`
}
