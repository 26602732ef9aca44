package models

import "gorm.io/gorm"

// Enrollment is the authoritative membership relation between users and
// courses. A user's enrolled courses and a course's enrolled students are
// both views over this table; there is no second copy to drift. The
// composite unique index makes enrollment insertion an idempotent set union.
type Enrollment struct {
	gorm.Model
	UserID   string `json:"userId" gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID uint   `json:"courseId" gorm:"uniqueIndex:idx_user_course;not null"`

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
