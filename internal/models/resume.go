package models

import (
	"time"

	"github.com/google/uuid"
)

type Resume struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	FileURL      string    `gorm:"type:text;not null" json:"file_url"`
	OriginalName string    `gorm:"type:text" json:"original_name"`
	ContentType  string    `gorm:"type:text" json:"content_type"`
	Content      string    `gorm:"type:text" json:"-"`
	UploadedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"uploaded_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Resume) TableName() string {
	return "resumes"
}
