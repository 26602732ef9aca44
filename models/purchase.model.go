package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
)

// Purchase records one attempt by one user to buy one course. Status moves
// pending -> completed or pending -> failed exactly once; terminal states are
// immutable. TransactionID is the opaque correlation token carried through
// the payment provider's session metadata.
type Purchase struct {
	gorm.Model
	CourseID       uint           `json:"courseId" gorm:"index;not null"`
	UserID         string         `json:"userId" gorm:"index;not null"`
	Amount         float64        `json:"amount" gorm:"not null"` // two-decimal charge amount
	Status         string         `json:"status" gorm:"default:'pending';index"`
	TransactionID  string         `json:"transactionId" gorm:"uniqueIndex;not null"`
	SessionPayload datatypes.JSON `json:"-"` // raw provider session snapshot

	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
