package models

import "time"

const (
	RoleStudent  = "student"
	RoleEducator = "educator"
)

// User mirrors an account at the identity provider. The ID is the provider's
// external id, never generated here; rows are written only by the identity
// sync webhook.
type User struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"default:''"`
	Email     string `json:"email" gorm:"unique;not null"`
	ImageURL  string `json:"imageUrl" gorm:"default:''"`
	Role      string `json:"role" gorm:"default:'student'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
