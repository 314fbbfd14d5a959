package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CoachTriggerIntentionAnalysis = "intention_analysis"
	CoachTriggerDailyReflection   = "daily_reflection"
	CoachTriggerRecoveryQuest     = "recovery_quest"
	CoachTriggerOnboarding        = "onboarding"
)

// CoachingLog records every coach exchange with the structured context the
// coach saw at the time.
type CoachingLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	User          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Trigger       string         `gorm:"not null;index;column:trigger" json:"trigger"`
	UserText      string         `gorm:"not null;column:user_text" json:"user_text"`
	CoachFeedback string         `gorm:"not null;column:coach_feedback" json:"coach_feedback"`
	Context       datatypes.JSON `gorm:"type:jsonb;column:context" json:"context,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"created_at"`
}

func (CoachingLog) TableName() string {
	return "coaching_log"
}

func (cl *CoachingLog) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	return nil
}
