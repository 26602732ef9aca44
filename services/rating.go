package services

import (
	"lms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingService accepts course ratings from enrolled users only.
type RatingService struct {
	DB *gorm.DB
}

// RateCourse adds the user's rating for a course or replaces their previous
// one. At most one rating per (course, user) is enforced by the unique index,
// not assumed.
func (s *RatingService) RateCourse(userID string, courseID uint, rating int) error {
	if rating < 1 || rating > 5 {
		return NewError(KindValidation, "Rating must be between 1 and 5!")
	}

	var course models.Course
	if err := s.DB.Where("id = ?", courseID).First(&course).Error; err != nil {
		return NewError(KindNotFound, "Course not found!")
	}

	var enrollment models.Enrollment
	if err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return NewError(KindForbidden, "User has not purchased this course.")
	}

	entry := models.CourseRating{CourseID: courseID, UserID: userID, Rating: rating}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating"}),
	}).Create(&entry).Error
	if err != nil {
		return NewError(KindInternal, "Failed to save rating!")
	}

	return nil
}

// AverageRating computes the arithmetic mean of a course's ratings on read.
// The aggregate is never stored, so it cannot drift from the entries.
func (s *RatingService) AverageRating(courseID uint) (float64, int64, error) {
	var count int64
	if err := s.DB.Model(&models.CourseRating{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, 0, NewError(KindInternal, "Failed to fetch ratings!")
	}
	if count == 0 {
		return 0, 0, nil
	}

	var avg float64
	if err := s.DB.Model(&models.CourseRating{}).
		Where("course_id = ?", courseID).
		Select("AVG(rating)").Scan(&avg).Error; err != nil {
		return 0, 0, NewError(KindInternal, "Failed to fetch ratings!")
	}

	return avg, count, nil
}
