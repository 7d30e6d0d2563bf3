package models

import (
	"time"
)

type Destination struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Country     string    `json:"country" gorm:"size:100"`
	Description string    `json:"description" gorm:"size:2000"`
	ImageURL    string    `json:"image_url" gorm:"size:500"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the Destination model
func (Destination) TableName() string {
	return "destinations"
}
