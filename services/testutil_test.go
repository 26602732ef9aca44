package services

import (
	"fmt"
	"strings"
	"testing"

	"lms/database"
	"lms/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database and runs the migrations.
// The shared-cache name keeps every pooled connection on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	user := models.User{
		ID:    id,
		Name:  "Student " + id,
		Email: id + "@example.com",
		Role:  models.RoleStudent,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedEducator(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	user := models.User{
		ID:    id,
		Name:  "Educator " + id,
		Email: id + "@example.com",
		Role:  models.RoleEducator,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedCourse creates a published course with one chapter holding the given
// number of lectures.
func seedCourse(t *testing.T, db *gorm.DB, educatorID string, price, discount float64, lectures int) models.Course {
	t.Helper()

	course := models.Course{
		Title:       "Test Course",
		Price:       price,
		Discount:    discount,
		IsPublished: true,
		EducatorID:  educatorID,
	}
	require.NoError(t, db.Create(&course).Error)

	chapter := models.Chapter{CourseID: course.ID, Title: "Chapter 1"}
	require.NoError(t, db.Create(&chapter).Error)

	for i := 0; i < lectures; i++ {
		lecture := models.Lecture{
			ChapterID:  chapter.ID,
			CourseID:   course.ID,
			Title:      fmt.Sprintf("Lecture %d", i+1),
			Duration:   10,
			LectureURL: "https://videos.example.com/lecture",
			OrderIndex: i,
		}
		require.NoError(t, db.Create(&lecture).Error)
	}

	return course
}

func enroll(t *testing.T, db *gorm.DB, userID string, courseID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.Enrollment{UserID: userID, CourseID: courseID}).Error)
}

func courseLectureIDs(t *testing.T, db *gorm.DB, courseID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.Lecture{}).Where("course_id = ?", courseID).Order("order_index asc").Pluck("id", &ids).Error)
	return ids
}

func kindOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	serviceErr, ok := err.(*Error)
	require.True(t, ok, "expected *services.Error, got %T", err)
	return serviceErr.Kind
}
