package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ExternalAuthID string    `gorm:"type:text;uniqueIndex;not null" json:"external_auth_id"`
	Email          string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Name           *string   `gorm:"type:text" json:"name,omitempty"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
