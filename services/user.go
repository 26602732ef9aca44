package services

import (
	"errors"

	"lms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService exposes the account operations consumed by the identity
// provider sync and the user-facing reads. Accounts are never created by the
// application itself.
type UserService struct {
	DB *gorm.DB
}

// UpsertFromIdentity creates or refreshes an account from a provider sync
// event. The provider's id is the primary key, so replays are harmless.
func (s *UserService) UpsertFromIdentity(id, name, email, imageURL string) error {
	if id == "" {
		return NewError(KindValidation, "Account id is required!")
	}

	user := models.User{ID: id, Name: name, Email: email, ImageURL: imageURL}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "image_url"}),
	}).Create(&user).Error
	if err != nil {
		return NewError(KindInternal, "Failed to sync account!")
	}
	return nil
}

// DeleteByID removes an account on a provider delete event. Deleting an
// unknown id is a no-op so replays stay safe.
func (s *UserService) DeleteByID(id string) error {
	if id == "" {
		return NewError(KindValidation, "Account id is required!")
	}
	if err := s.DB.Where("id = ?", id).Delete(&models.User{}).Error; err != nil {
		return NewError(KindInternal, "Failed to delete account!")
	}
	return nil
}

// ByID fetches a single account.
func (s *UserService) ByID(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindNotFound, "User not found!")
		}
		return nil, NewError(KindInternal, "Failed to fetch user!")
	}
	return &user, nil
}

// SetRole updates the account's role flag. Used by the educator promotion
// endpoint.
func (s *UserService) SetRole(id, role string) error {
	if role != models.RoleStudent && role != models.RoleEducator {
		return NewError(KindValidation, "Unknown role!")
	}
	res := s.DB.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return NewError(KindInternal, "Failed to update role!")
	}
	if res.RowsAffected == 0 {
		return NewError(KindNotFound, "User not found!")
	}
	return nil
}

// EnrolledCourses returns the courses the user is a member of, derived from
// the enrollment relation.
func (s *UserService) EnrolledCourses(userID string) ([]models.Course, error) {
	var courses []models.Course
	err := s.DB.
		Select("courses.*").
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ? AND enrollments.deleted_at IS NULL", userID).
		Order("enrollments.created_at desc").
		Find(&courses).Error
	if err != nil {
		return nil, NewError(KindInternal, "Failed to fetch enrolled courses!")
	}
	return courses, nil
}
