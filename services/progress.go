package services

import (
	"lms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressService maintains per-(user, course) lecture completion and derives
// overall course completion from it.
type ProgressService struct {
	DB *gorm.DB
}

// Progress is the read view of a user's progress in a course. An absent
// record reads as an empty set with Completed false.
type Progress struct {
	CourseID         uint   `json:"courseId"`
	LectureCompleted []uint `json:"lectureCompleted"`
	Completed        bool   `json:"completed"`
}

// MarkLectureComplete records one completed lecture and recomputes course
// completion. Completing the same lecture twice is a no-op. The total lecture
// count is re-read from the course on every call so content edits move the
// completion flag in either direction.
func (s *ProgressService) MarkLectureComplete(userID string, courseID, lectureID uint) (*Progress, error) {
	var enrollment models.Enrollment
	if err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return nil, NewError(KindNotEnrolled, "User not enrolled in this course!")
	}

	var lecture models.Lecture
	if err := s.DB.Where("id = ? AND course_id = ?", lectureID, courseID).First(&lecture).Error; err != nil {
		return nil, NewError(KindNotFound, "Lecture not found in this course!")
	}

	// Set union into the completed-lecture set; the unique index absorbs
	// duplicates and concurrent inserts for other lectures are independent
	// rows, so no addition is lost.
	completion := models.LectureCompletion{UserID: userID, CourseID: courseID, LectureID: lectureID}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to record lecture completion!")
	}

	// Lazily create the progress record; the unique index absorbs a
	// concurrent first completion.
	progress := models.CourseProgress{UserID: userID, CourseID: courseID}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&progress).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to create progress record!")
	}
	if err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to load progress record!")
	}

	if err := s.recomputeCompletion(&progress); err != nil {
		return nil, NewError(KindInternal, "Failed to update progress record!")
	}

	return s.GetProgress(userID, courseID)
}

// recomputeCompletion sets the completion flag to completed-set size ==
// current total lecture count of the course.
func (s *ProgressService) recomputeCompletion(progress *models.CourseProgress) error {
	var totalLectures int64
	if err := s.DB.Model(&models.Lecture{}).
		Where("course_id = ?", progress.CourseID).
		Count(&totalLectures).Error; err != nil {
		return err
	}

	var completedLectures int64
	if err := s.DB.Model(&models.LectureCompletion{}).
		Where("user_id = ? AND course_id = ?", progress.UserID, progress.CourseID).
		Count(&completedLectures).Error; err != nil {
		return err
	}

	completed := totalLectures > 0 && completedLectures == totalLectures
	return s.DB.Model(progress).Update("completed", completed).Error
}

// GetProgress returns the user's progress in a course. Absence is not an
// error: it reads as no lectures completed.
func (s *ProgressService) GetProgress(userID string, courseID uint) (*Progress, error) {
	result := &Progress{CourseID: courseID, LectureCompleted: []uint{}}

	var progress models.CourseProgress
	if err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error; err != nil {
		return result, nil
	}
	result.Completed = progress.Completed

	var completions []models.LectureCompletion
	if err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at asc").Find(&completions).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to fetch progress!")
	}
	for _, c := range completions {
		result.LectureCompleted = append(result.LectureCompleted, c.LectureID)
	}

	return result, nil
}
