package models

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleGuide UserRole = "guide"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Avatar       string    `json:"avatar" gorm:"size:500"`
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'user';check:role IN ('user','guide','admin')"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsValidRole checks if the user role is valid
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleUser, RoleGuide, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsGuide checks if the user is a guide
func (u *User) IsGuide() bool {
	return u.Role == RoleGuide
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
