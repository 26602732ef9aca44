package models

import "gorm.io/gorm"

// CourseProgress tracks overall completion of a course by a user. Created
// lazily on the first lecture completion. Completed is recomputed against the
// course's current lecture count on every update, never cached.
type CourseProgress struct {
	gorm.Model
	UserID    string `json:"userId" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID  uint   `json:"courseId" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	Completed bool   `json:"completed" gorm:"default:false"`
}

// LectureCompletion is one element of a user's completed-lecture set for a
// course. Row-per-lecture with a composite unique index keeps the set-union
// insert idempotent under duplicate and concurrent calls.
type LectureCompletion struct {
	gorm.Model
	UserID    string `json:"userId" gorm:"uniqueIndex:idx_completion;not null"`
	CourseID  uint   `json:"courseId" gorm:"uniqueIndex:idx_completion;not null"`
	LectureID uint   `json:"lectureId" gorm:"uniqueIndex:idx_completion;not null"`
}
