package models

import (
	"time"
)

type BlogPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ImageURL  string    `json:"image_url" gorm:"size:500"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

// TableName specifies the table name for the BlogPost model
func (BlogPost) TableName() string {
	return "blog_posts"
}
