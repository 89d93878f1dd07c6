package models

import (
	"time"

	"gorm.io/gorm"
)

// JetonType is the activity category a jeton rewards
type JetonType string

const (
	JetonTypeVideo JetonType = "VIDEO" // videos watched
	JetonTypeTest  JetonType = "TEST"  // quizzes passed
	JetonTypeCard  JetonType = "CARD"  // card allocation (no threshold lookup)
)

// Jeton: catalog definition (threshold × type → reward). Read-only to the
// assignment engine; managed by admin endpoints.
type Jeton struct {
	ID            string         `gorm:"primaryKey;type:uuid" json:"id"`
	Title         string         `gorm:"uniqueIndex;not null" json:"title"`
	TitleKG       string         `json:"title_kg,omitempty"`
	Description   string         `gorm:"type:text" json:"description"`
	DescriptionKG string         `gorm:"type:text" json:"description_kg,omitempty"`
	Type          JetonType      `gorm:"type:varchar(16);not null;default:'CARD';index;uniqueIndex:idx_jeton_tier,where:type <> 'CARD' AND deleted_at IS NULL" json:"type"`
	QuantityToGet int64          `gorm:"uniqueIndex:idx_jeton_tier,where:type <> 'CARD' AND deleted_at IS NULL" json:"quantity_to_get"` // minimum activity count to qualify; ignored for CARD allocation
	ImageURL      string         `gorm:"type:text" json:"image_url"`
	CardInfoID    *string        `gorm:"type:uuid" json:"card_info_id,omitempty"`
	CardInfo      *CardInfo      `json:"card_info,omitempty"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CardInfo: extra content behind a CARD-type jeton
type CardInfo struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	TitleKG       string    `json:"title_kg,omitempty"`
	Description   string    `gorm:"type:text" json:"description"`
	DescriptionKG string    `gorm:"type:text" json:"description_kg,omitempty"`
	ImageURL      string    `gorm:"type:text" json:"image_url"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// UserJeton: awarded instance. The composite unique index is what makes a
// grant replay a no-op at the database level.
type UserJeton struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:idx_user_jeton;not null" json:"external_user_id"`
	JetonID        string    `gorm:"uniqueIndex:idx_user_jeton;type:uuid;not null" json:"jeton_id"`
	Jeton          *Jeton    `json:"jeton,omitempty"`
	AwardedAt      time.Time `json:"awarded_at" gorm:"autoCreateTime"`
}
