package models

import (
	"time"
)

type ComplaintTarget string

const (
	ComplaintTargetListing ComplaintTarget = "Listing"
	ComplaintTargetUser    ComplaintTarget = "User"
)

type ComplaintStatus string

const (
	ComplaintStatusPending  ComplaintStatus = "pending"
	ComplaintStatusResolved ComplaintStatus = "resolved"
)

// Complaint is filed by a user against a listing or another user. A "Guide"
// target is normalized to "User" at creation.
type Complaint struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"user_id" gorm:"not null"`
	TargetType ComplaintTarget `json:"target_type" gorm:"type:varchar(20);not null;check:target_type IN ('Listing','User')"`
	TargetID   uint            `json:"target_id" gorm:"not null"`
	Message    string          `json:"message" gorm:"size:2000;not null"`
	Status     ComplaintStatus `json:"status" gorm:"type:varchar(20);default:'pending';check:status IN ('pending','resolved')"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Complaint model
func (Complaint) TableName() string {
	return "complaints"
}

// NormalizeTargetType maps the accepted client values onto the stored target
// types. "Guide" is stored as "User".
func NormalizeTargetType(raw string) (ComplaintTarget, bool) {
	switch raw {
	case "Listing":
		return ComplaintTargetListing, true
	case "User", "Guide":
		return ComplaintTargetUser, true
	default:
		return "", false
	}
}
