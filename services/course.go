package services

import (
	"errors"

	"lms/models"

	"gorm.io/gorm"
)

// CourseService serves the public catalog reads.
type CourseService struct {
	DB *gorm.DB
}

// CourseSummary is a catalog listing entry. Content and membership details
// are omitted; the rating aggregate is computed on read.
type CourseSummary struct {
	models.Course
	Educator      models.User `json:"educator"`
	AverageRating float64     `json:"averageRating"`
	RatingCount   int64       `json:"ratingCount"`
	EnrolledCount int64       `json:"enrolledCount"`
}

// ListPublished returns all published courses with their educator and
// aggregate rating.
func (s *CourseService) ListPublished() ([]CourseSummary, error) {
	var courses []models.Course
	if err := s.DB.Where("is_published = ?", true).Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to fetch courses!")
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		summary := CourseSummary{Course: course}
		s.DB.Where("id = ?", course.EducatorID).First(&summary.Educator)
		s.aggregate(&summary)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ByID returns one published course with its full content tree. Lecture URLs
// are blanked unless the lecture is a free preview or the requesting user is
// enrolled.
func (s *CourseService) ByID(courseID uint, userID string) (*CourseSummary, error) {
	var course models.Course
	err := s.DB.Where("id = ? AND is_published = ?", courseID, true).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.order_index asc")
		}).
		Preload("Chapters.Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Order("lectures.order_index asc")
		}).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "Course not found!")
		}
		return nil, NewError(KindInternal, "Failed to fetch course!")
	}

	enrolled := false
	if userID != "" {
		var enrollment models.Enrollment
		enrolled = s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error == nil
	}

	if !enrolled {
		for ci := range course.Chapters {
			for li := range course.Chapters[ci].Lectures {
				if !course.Chapters[ci].Lectures[li].IsPreviewFree {
					course.Chapters[ci].Lectures[li].LectureURL = ""
				}
			}
		}
	}

	summary := CourseSummary{Course: course}
	s.DB.Where("id = ?", course.EducatorID).First(&summary.Educator)
	s.aggregate(&summary)
	return &summary, nil
}

func (s *CourseService) aggregate(summary *CourseSummary) {
	s.DB.Model(&models.CourseRating{}).Where("course_id = ?", summary.Course.ID).Count(&summary.RatingCount)
	if summary.RatingCount > 0 {
		s.DB.Model(&models.CourseRating{}).
			Where("course_id = ?", summary.Course.ID).
			Select("AVG(rating)").Scan(&summary.AverageRating)
	}
	s.DB.Model(&models.Enrollment{}).Where("course_id = ?", summary.Course.ID).Count(&summary.EnrolledCount)
}
