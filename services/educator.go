package services

import (
	"lms/models"

	"gorm.io/gorm"
)

// EducatorService owns course authoring and the educator's sales views.
type EducatorService struct {
	DB *gorm.DB
}

// NewLecture is one lecture of a course authoring payload.
type NewLecture struct {
	Title         string `json:"title" validate:"required"`
	Duration      int    `json:"duration" validate:"gte=0"`
	LectureURL    string `json:"lectureUrl" validate:"required"`
	IsPreviewFree bool   `json:"isPreviewFree"`
}

// NewChapter is one chapter of a course authoring payload.
type NewChapter struct {
	Title    string       `json:"title" validate:"required"`
	Lectures []NewLecture `json:"lectures" validate:"dive"`
}

// NewCourse is the course authoring payload.
type NewCourse struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Price       float64      `json:"price" validate:"gte=0"`
	Discount    float64      `json:"discount" validate:"gte=0,lte=100"`
	IsPublished bool         `json:"isPublished"`
	Chapters    []NewChapter `json:"chapters" validate:"dive"`
}

// AddCourse creates a course with its chapters and lectures in one
// transaction. The thumbnail is attached separately once stored.
func (s *EducatorService) AddCourse(educatorID string, payload NewCourse, thumbnailURL string) (*models.Course, error) {
	var educator models.User
	if err := s.DB.Where("id = ? AND role = ?", educatorID, models.RoleEducator).First(&educator).Error; err != nil {
		return nil, NewError(KindForbidden, "Only educators can publish courses!")
	}

	course := models.Course{
		Title:        payload.Title,
		Description:  payload.Description,
		Price:        payload.Price,
		Discount:     payload.Discount,
		ThumbnailURL: thumbnailURL,
		IsPublished:  payload.IsPublished,
		EducatorID:   educatorID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		for ci, ch := range payload.Chapters {
			chapter := models.Chapter{CourseID: course.ID, Title: ch.Title, OrderIndex: ci}
			if err := tx.Create(&chapter).Error; err != nil {
				return err
			}
			for li, lec := range ch.Lectures {
				lecture := models.Lecture{
					ChapterID:     chapter.ID,
					CourseID:      course.ID,
					Title:         lec.Title,
					Duration:      lec.Duration,
					LectureURL:    lec.LectureURL,
					IsPreviewFree: lec.IsPreviewFree,
					OrderIndex:    li,
				}
				if err := tx.Create(&lecture).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, NewError(KindInternal, "Failed to create course!")
	}

	return &course, nil
}

// CoursesByEducator lists the educator's own courses, published or not.
func (s *EducatorService) CoursesByEducator(educatorID string) ([]models.Course, error) {
	var courses []models.Course
	if err := s.DB.Where("educator_id = ?", educatorID).Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to fetch courses!")
	}
	return courses, nil
}

// Dashboard aggregates the educator's earnings and enrollment numbers.
// Earnings count only completed purchases.
type Dashboard struct {
	TotalCourses    int64             `json:"totalCourses"`
	TotalEarnings   float64           `json:"totalEarnings"`
	TotalEnrollment int64             `json:"totalEnrollment"`
	EnrolledList    []EnrolledStudent `json:"enrolledStudentsData"`
}

// EnrolledStudent pairs a completed purchase with its buyer for educator
// views.
type EnrolledStudent struct {
	CourseTitle  string      `json:"courseTitle"`
	Student      models.User `json:"student"`
	AmountPaid   float64     `json:"amountPaid"`
	PurchaseDate string      `json:"purchaseDate"`
}

// DashboardData builds the educator dashboard.
func (s *EducatorService) DashboardData(educatorID string) (*Dashboard, error) {
	courseIDs, err := s.courseIDs(educatorID)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{TotalCourses: int64(len(courseIDs)), EnrolledList: []EnrolledStudent{}}
	if len(courseIDs) == 0 {
		return dash, nil
	}

	if err := s.DB.Model(&models.Purchase{}).
		Where("course_id IN ? AND status = ?", courseIDs, models.PurchaseStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&dash.TotalEarnings).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to compute earnings!")
	}

	if err := s.DB.Model(&models.Enrollment{}).
		Where("course_id IN ?", courseIDs).
		Count(&dash.TotalEnrollment).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to count enrollments!")
	}

	list, err := s.EnrolledStudents(educatorID)
	if err != nil {
		return nil, err
	}
	dash.EnrolledList = list

	return dash, nil
}

// EnrolledStudents lists every completed purchase of the educator's courses
// with buyer details.
func (s *EducatorService) EnrolledStudents(educatorID string) ([]EnrolledStudent, error) {
	courseIDs, err := s.courseIDs(educatorID)
	if err != nil {
		return nil, err
	}

	result := []EnrolledStudent{}
	if len(courseIDs) == 0 {
		return result, nil
	}

	var purchases []models.Purchase
	if err := s.DB.Where("course_id IN ? AND status = ?", courseIDs, models.PurchaseStatusCompleted).
		Preload("Course").Preload("User").
		Order("created_at desc").Find(&purchases).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to fetch purchases!")
	}

	for _, p := range purchases {
		result = append(result, EnrolledStudent{
			CourseTitle:  p.Course.Title,
			Student:      p.User,
			AmountPaid:   p.Amount,
			PurchaseDate: p.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return result, nil
}

func (s *EducatorService) courseIDs(educatorID string) ([]uint, error) {
	var ids []uint
	if err := s.DB.Model(&models.Course{}).Where("educator_id = ?", educatorID).Pluck("id", &ids).Error; err != nil {
		return nil, NewError(KindInternal, "Failed to fetch courses!")
	}
	return ids, nil
}
