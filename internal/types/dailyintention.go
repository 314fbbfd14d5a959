package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	IntentionStatusPending    = "pending"
	IntentionStatusInProgress = "in_progress"
	IntentionStatusCompleted  = "completed"
	IntentionStatusFailed     = "failed"
)

// DailyIntention is the single measurable commitment for one user and one UTC
// calendar day. CreatedAt defines which day the intention belongs to.
type DailyIntention struct {
	ID                uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID    `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	User              *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	IntentionText     string       `gorm:"not null;column:intention_text" json:"intention_text"`
	TargetQuantity    int          `gorm:"not null;column:target_quantity" json:"target_quantity"`
	CompletedQuantity int          `gorm:"not null;default:0;column:completed_quantity" json:"completed_quantity"`
	FocusBlockCount   int          `gorm:"not null;column:focus_block_count" json:"focus_block_count"`
	Status            string       `gorm:"not null;default:'pending';index;column:status" json:"status"`
	AIFeedback        *string      `gorm:"column:ai_feedback" json:"ai_feedback,omitempty"`
	FocusBlocks       []FocusBlock `gorm:"foreignKey:DailyIntentionID;references:ID" json:"focus_blocks,omitempty"`
	CreatedAt         time.Time    `gorm:"not null;index" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null" json:"updated_at"`
}

func (DailyIntention) TableName() string {
	return "daily_intention"
}

func (di *DailyIntention) BeforeCreate(tx *gorm.DB) error {
	if di.ID == uuid.Nil {
		di.ID = uuid.New()
	}
	return nil
}

// Open reports whether the intention can still accept progress.
func (di *DailyIntention) Open() bool {
	return di.Status == IntentionStatusPending || di.Status == IntentionStatusInProgress
}

func (di *DailyIntention) TargetMet() bool {
	return di.CompletedQuantity >= di.TargetQuantity
}

// CompletionPercentage is completed over target, expressed 0..100.
func (di *DailyIntention) CompletionPercentage() float64 {
	if di.TargetQuantity <= 0 {
		return 0
	}
	pct := float64(di.CompletedQuantity) / float64(di.TargetQuantity) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
