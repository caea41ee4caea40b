package models

import "gorm.io/gorm"

// Course represents a learning course owned by an educator
type Course struct {
	gorm.Model
	EducatorID   string    `json:"educator_id" gorm:"index;not null"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Discount     uint      `json:"discount" gorm:"default:0"` // percent, 0-100
	ThumbnailURL string    `json:"thumbnail_url"`
	IsPublished  bool      `json:"is_published" gorm:"default:false"`
	Chapters     []Chapter `json:"chapters,omitempty"`
}

// Chapter is an ordered section of a course
type Chapter struct {
	gorm.Model
	CourseID   uint      `json:"course_id" gorm:"index;not null"`
	Title      string    `json:"title"`
	OrderIndex int       `json:"order_index" gorm:"default:0"`
	Lectures   []Lecture `json:"lectures,omitempty"`
}

// Lecture is a single content item inside a chapter. LectureURL is only
// exposed to enrolled users unless IsPreviewFree is set.
type Lecture struct {
	gorm.Model
	ChapterID     uint   `json:"chapter_id" gorm:"index;not null"`
	CourseID      uint   `json:"course_id" gorm:"index;not null"`
	Title         string `json:"title"`
	LectureURL    string `json:"lecture_url"`
	Duration      int    `json:"duration" gorm:"default:0"` // minutes
	IsPreviewFree bool   `json:"is_preview_free" gorm:"default:false"`
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
}
