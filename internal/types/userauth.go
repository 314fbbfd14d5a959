package types

import (
	"time"

	"github.com/google/uuid"
)

// UserAuth keeps credentials out of the User row so profile reads never carry
// the password hash.
type UserAuth struct {
	UserID       uuid.UUID  `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	User         *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	PasswordHash string     `gorm:"not null;column:password_hash" json:"-"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserAuth) TableName() string {
	return "user_auth"
}
