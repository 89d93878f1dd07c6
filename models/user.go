package models

import (
	"time"

	"gorm.io/gorm"
)

// PlatformUser is a local snapshot of user data needed by the reward and
// questionnaire engines. Identity is owned by the profile service; rows
// here are populated by the sync worker and never created locally.
type PlatformUser struct {
	ID                string         `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID    string         `gorm:"uniqueIndex;not null" json:"external_user_id"` // the profile service's UUID
	Username          string         `gorm:"index;not null" json:"username"`
	Email             string         `json:"email,omitempty"`
	FirstName         *string        `json:"first_name,omitempty"`
	LastName          *string        `json:"last_name,omitempty"`
	ProfilePictureURL *string        `json:"profile_picture_url,omitempty"`
	PreferredLanguage *string        `json:"preferred_language,omitempty"` // "ru" or "ky"
	CreatedAt         time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}
