package types

import (
	"time"

	"github.com/google/uuid"
)

// CharacterStats accumulates XP and the named attributes. Level is derived
// from XP and never stored.
type CharacterStats struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	XP         int       `gorm:"not null;default:0;column:xp" json:"xp"`
	Clarity    int       `gorm:"not null;default:0;column:clarity" json:"clarity"`
	Discipline int       `gorm:"not null;default:0;column:discipline" json:"discipline"`
	Resilience int       `gorm:"not null;default:0;column:resilience" json:"resilience"`
	Commitment int       `gorm:"not null;default:0;column:commitment" json:"commitment"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (CharacterStats) TableName() string {
	return "character_stats"
}
