package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const RecoveryQuestTypeReflection = "reflection"

// DailyResult is the terminal record of one intention. Failed days carry a
// recovery quest; the day counts as resolved only once the reflection
// response lands.
type DailyResult struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DailyIntentionID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex;column:daily_intention_id" json:"daily_intention_id"`
	DailyIntention         *DailyIntention `gorm:"constraint:OnDelete:CASCADE;foreignKey:DailyIntentionID;references:ID" json:"-"`
	Succeeded              bool            `gorm:"not null;column:succeeded" json:"succeeded"`
	XPAwarded              int             `gorm:"not null;default:0;column:xp_awarded" json:"xp_awarded"`
	DisciplineGain         int             `gorm:"not null;default:0;column:discipline_gain" json:"discipline_gain"`
	ResilienceGain         int             `gorm:"not null;default:0;column:resilience_gain" json:"resilience_gain"`
	AIFeedback             *string         `gorm:"column:ai_feedback" json:"ai_feedback,omitempty"`
	RecoveryQuest          *string         `gorm:"column:recovery_quest" json:"recovery_quest,omitempty"`
	RecoveryQuestType      string          `gorm:"not null;default:'reflection';column:recovery_quest_type" json:"recovery_quest_type"`
	RecoveryQuestResponse  *string         `gorm:"column:recovery_quest_response" json:"recovery_quest_response,omitempty"`
	RecoveryQuestCompleted bool            `gorm:"not null;default:false;column:recovery_quest_completed" json:"recovery_quest_completed"`
	CreatedAt              time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time       `gorm:"not null" json:"updated_at"`
}

func (DailyResult) TableName() string {
	return "daily_result"
}

func (dr *DailyResult) BeforeCreate(tx *gorm.DB) error {
	if dr.ID == uuid.Nil {
		dr.ID = uuid.New()
	}
	return nil
}

// RecoveryPending reports whether the result still blocks the next day's
// intention.
func (dr *DailyResult) RecoveryPending() bool {
	return !dr.Succeeded && dr.RecoveryQuest != nil && !dr.RecoveryQuestCompleted
}
