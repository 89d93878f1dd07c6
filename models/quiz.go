package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	TitleKG     string         `json:"title_kg,omitempty"`
	VideoBlogID *string        `gorm:"index" json:"video_blog_id,omitempty"` // video module owns video blogs; only the link lives here
	Questions   []QuizQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type QuizQuestion struct {
	ID        string       `gorm:"primaryKey;type:uuid" json:"id"`
	QuizID    string       `gorm:"type:uuid;index;not null" json:"quiz_id"`
	Text      string       `gorm:"type:text;not null" json:"text"`
	Position  int          `gorm:"not null" json:"position"`
	Options   []QuizOption `gorm:"foreignKey:QuizQuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

type QuizOption struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	QuizQuestionID string    `gorm:"type:uuid;index;not null" json:"quiz_question_id"`
	Text           string    `gorm:"type:text" json:"text"`
	Position       int       `gorm:"not null" json:"position"`
	IsCorrect      bool      `gorm:"default:false" json:"is_correct"` // stored for authoring; answers are not graded on submission
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// QuizResult records one user passing one quiz. The composite unique index
// keeps a retake from producing a second row.
type QuizResult struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:idx_user_quiz;not null" json:"external_user_id"`
	QuizID         string    `gorm:"uniqueIndex:idx_user_quiz;type:uuid;not null" json:"quiz_id"`
	Quiz           *Quiz     `json:"quiz,omitempty"`
	TakenAt        time.Time `json:"taken_at" gorm:"autoCreateTime"`
}
