package services

import (
	"testing"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCourseRequiresEducatorRole(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "user_1")

	svc := &EducatorService{DB: db}

	_, err := svc.AddCourse(user.ID, NewCourse{Title: "Go Basics", Price: 10}, "")
	assert.Equal(t, KindForbidden, kindOf(t, err))
}

func TestAddCourseCreatesContentTree(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")

	svc := &EducatorService{DB: db}

	payload := NewCourse{
		Title:       "Go Basics",
		Description: "An introduction",
		Price:       49.99,
		Discount:    10,
		IsPublished: true,
		Chapters: []NewChapter{
			{Title: "Getting Started", Lectures: []NewLecture{
				{Title: "Install", Duration: 5, LectureURL: "https://videos.example.com/1", IsPreviewFree: true},
				{Title: "Hello World", Duration: 8, LectureURL: "https://videos.example.com/2"},
			}},
			{Title: "Types", Lectures: []NewLecture{
				{Title: "Structs", Duration: 12, LectureURL: "https://videos.example.com/3"},
			}},
		},
	}

	course, err := svc.AddCourse(educator.ID, payload, "/public/thumbnails/x.png")
	require.NoError(t, err)
	assert.Equal(t, educator.ID, course.EducatorID)

	var chapters int64
	db.Model(&models.Chapter{}).Where("course_id = ?", course.ID).Count(&chapters)
	assert.Equal(t, int64(2), chapters)

	var lectures int64
	db.Model(&models.Lecture{}).Where("course_id = ?", course.ID).Count(&lectures)
	assert.Equal(t, int64(3), lectures)
}

func TestDashboardCountsOnlyCompletedPurchases(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")
	buyer := seedUser(t, db, "user_1")
	other := seedUser(t, db, "user_2")
	course := seedCourse(t, db, educator.ID, 100, 20, 1)

	require.NoError(t, db.Create(&models.Purchase{
		CourseID: course.ID, UserID: buyer.ID, Amount: 80,
		Status: models.PurchaseStatusCompleted, TransactionID: "txn_1",
	}).Error)
	require.NoError(t, db.Create(&models.Purchase{
		CourseID: course.ID, UserID: other.ID, Amount: 80,
		Status: models.PurchaseStatusPending, TransactionID: "txn_2",
	}).Error)
	enroll(t, db, buyer.ID, course.ID)

	svc := &EducatorService{DB: db}

	dash, err := svc.DashboardData(educator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.TotalCourses)
	assert.Equal(t, 80.0, dash.TotalEarnings)
	assert.Equal(t, int64(1), dash.TotalEnrollment)
	require.Len(t, dash.EnrolledList, 1)
	assert.Equal(t, buyer.ID, dash.EnrolledList[0].Student.ID)
	assert.Equal(t, course.Title, dash.EnrolledList[0].CourseTitle)
}

func TestDashboardEmptyEducator(t *testing.T) {
	db := newTestDB(t)
	educator := seedEducator(t, db, "edu_1")

	svc := &EducatorService{DB: db}

	dash, err := svc.DashboardData(educator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), dash.TotalCourses)
	assert.Equal(t, 0.0, dash.TotalEarnings)
	assert.Empty(t, dash.EnrolledList)
}
