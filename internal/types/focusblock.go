package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FocusBlockStatusPending    = "pending"
	FocusBlockStatusInProgress = "in_progress"
	FocusBlockStatusCompleted  = "completed"
	FocusBlockStatusFailed     = "failed"
)

// FocusBlock is one timed execution sprint inside a daily intention.
// StartedAt is stamped server-side when the block enters in_progress and is
// the countdown base for clients.
type FocusBlock struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DailyIntentionID  uuid.UUID       `gorm:"type:uuid;not null;index;column:daily_intention_id" json:"daily_intention_id"`
	DailyIntention    *DailyIntention `gorm:"constraint:OnDelete:CASCADE;foreignKey:DailyIntentionID;references:ID" json:"-"`
	BlockIntention    string          `gorm:"not null;column:block_intention" json:"block_intention"`
	DurationMinutes   int             `gorm:"not null;column:duration_minutes" json:"duration_minutes"`
	Status            string          `gorm:"not null;default:'pending';column:status" json:"status"`
	StartedAt         *time.Time      `gorm:"column:started_at" json:"started_at,omitempty"`
	PreBlockVideoURL  *string         `gorm:"column:pre_block_video_url" json:"pre_block_video_url,omitempty"`
	PostBlockVideoURL *string         `gorm:"column:post_block_video_url" json:"post_block_video_url,omitempty"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (FocusBlock) TableName() string {
	return "focus_block"
}

func (fb *FocusBlock) BeforeCreate(tx *gorm.DB) error {
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	return nil
}

// Active reports whether the block still holds the single-active-block slot
// of its intention.
func (fb *FocusBlock) Active() bool {
	return fb.Status == FocusBlockStatusPending || fb.Status == FocusBlockStatusInProgress
}
