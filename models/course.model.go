package models

import "gorm.io/gorm"

// Course represents a learning course owned by an educator
type Course struct {
	gorm.Model
	Title        string  `json:"title" gorm:"not null"`
	Description  string  `json:"description" gorm:"type:text;default:''"`
	Price        float64 `json:"price" gorm:"default:0"`
	Discount     float64 `json:"discount" gorm:"default:0"` // percent, 0-100
	ThumbnailURL string  `json:"thumbnailUrl" gorm:"default:''"`
	IsPublished  bool    `json:"isPublished" gorm:"default:false"`
	EducatorID   string  `json:"educatorId" gorm:"index;not null"`

	Chapters []Chapter      `json:"chapters,omitempty" gorm:"foreignKey:CourseID"`
	Ratings  []CourseRating `json:"ratings,omitempty" gorm:"foreignKey:CourseID"`
}

// Chapter is an ordered section of a course
type Chapter struct {
	gorm.Model
	CourseID   uint   `json:"courseId" gorm:"index;not null"`
	Title      string `json:"title" gorm:"not null"`
	OrderIndex int    `json:"orderIndex" gorm:"default:0"`

	Lectures []Lecture `json:"lectures,omitempty" gorm:"foreignKey:ChapterID"`
}

// Lecture is a single unit of content inside a chapter. CourseID is
// denormalized so lecture counts and membership checks need no join through
// chapters.
type Lecture struct {
	gorm.Model
	ChapterID     uint   `json:"chapterId" gorm:"index;not null"`
	CourseID      uint   `json:"courseId" gorm:"index;not null"`
	Title         string `json:"title" gorm:"not null"`
	Duration      int    `json:"duration" gorm:"default:0"` // minutes
	LectureURL    string `json:"lectureUrl" gorm:"default:''"`
	IsPreviewFree bool   `json:"isPreviewFree" gorm:"default:false"`
	OrderIndex    int    `json:"orderIndex" gorm:"default:0"`
}

// CourseRating holds one user's rating of a course. The composite unique
// index enforces at most one rating per (course, user); updates replace the
// value in place.
type CourseRating struct {
	gorm.Model
	CourseID uint   `json:"courseId" gorm:"uniqueIndex:idx_course_rater;not null"`
	UserID   string `json:"userId" gorm:"uniqueIndex:idx_course_rater;not null"`
	Rating   int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
}
