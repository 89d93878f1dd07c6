package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityProgress is the per-user activity ledger (denormalized counters).
// It is the only row the assignment engine mutates under lock, so reward
// bookkeeping never contends with unrelated user fields.
type ActivityProgress struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"`

	VideosWatched      int64 `json:"videos_watched" gorm:"default:0"`
	QuizzesPassed      int64 `json:"quizzes_passed" gorm:"default:0"`
	ResponsesSubmitted int64 `json:"responses_submitted" gorm:"default:0"`

	Timestamps
}

// CountFor returns the ledger counter backing the given jeton type.
func (p *ActivityProgress) CountFor(kind JetonType) int64 {
	switch kind {
	case JetonTypeVideo:
		return p.VideosWatched
	case JetonTypeTest:
		return p.QuizzesPassed
	default:
		return 0
	}
}

// WatchedVideo records that a user watched a video blog once.
type WatchedVideo struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:idx_user_video;not null" json:"external_user_id"`
	VideoBlogID    string    `gorm:"uniqueIndex:idx_user_video;not null" json:"video_blog_id"`
	WatchedAt      time.Time `json:"watched_at" gorm:"autoCreateTime"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
