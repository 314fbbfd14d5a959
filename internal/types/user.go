package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Onboarding walks these steps in order; each answer lands on the matching
// User column and the streak ignites when the final step is recorded.
const (
	OnboardingStepVision     = "vision"
	OnboardingStepMilestone  = "milestone"
	OnboardingStepConstraint = "constraint"
	OnboardingStepHLA        = "hla"
)

type User struct {
	ID                       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email                    string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name                     string     `gorm:"not null;column:name" json:"name"`
	Vision                   *string    `gorm:"column:vision" json:"vision,omitempty"`
	Milestone                *string    `gorm:"column:milestone" json:"milestone,omitempty"`
	Constraint               *string    `gorm:"column:constraint" json:"constraint,omitempty"`
	HighestLeverageActivity  *string    `gorm:"column:highest_leverage_activity" json:"highest_leverage_activity,omitempty"`
	DefaultFocusBlockMinutes int        `gorm:"not null;default:50;column:default_focus_block_minutes" json:"default_focus_block_minutes"`
	CurrentStreak            int        `gorm:"not null;default:0;column:current_streak" json:"current_streak"`
	LongestStreak            int        `gorm:"not null;default:0;column:longest_streak" json:"longest_streak"`
	LastStreakUpdate         *time.Time `gorm:"column:last_streak_update" json:"last_streak_update,omitempty"`
	AvatarKey                string     `gorm:"column:avatar_key" json:"-"`
	AvatarColor              string     `gorm:"column:avatar_color" json:"-"`
	AvatarURL                string     `gorm:"column:avatar_url" json:"avatar_url"`
	CreatedAt                time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt                time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// NextOnboardingStep returns the first unanswered onboarding step, or "" once
// the HLA is set and onboarding is complete.
func (u *User) NextOnboardingStep() string {
	switch {
	case u.Vision == nil:
		return OnboardingStepVision
	case u.Milestone == nil:
		return OnboardingStepMilestone
	case u.Constraint == nil:
		return OnboardingStepConstraint
	case u.HighestLeverageActivity == nil:
		return OnboardingStepHLA
	default:
		return ""
	}
}

func (u *User) OnboardingComplete() bool {
	return u.NextOnboardingStep() == ""
}
