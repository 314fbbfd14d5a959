package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/repos"
	"github.com/xecuteapp/backend/internal/types"
)

// StreakService guards the consecutive-day counter. A win is any action
// that counts toward the streak: completing an intention, answering a
// recovery quest, or finishing onboarding.
type StreakService interface {
	RecordWin(ctx context.Context, tx *gorm.DB, user *types.User) (bool, error)
}

type streakService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewStreakService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) StreakService {
	serviceLog := log.With("service", "StreakService")
	return &streakService{db: db, log: serviceLog, userRepo: userRepo}
}

// RecordWin advances the streak for today's win and persists the user.
// Returns false without writing when today already counted.
func (ss *streakService) RecordWin(ctx context.Context, tx *gorm.DB, user *types.User) (bool, error) {
	if user == nil {
		return false, fmt.Errorf("user required")
	}
	changed := advanceStreak(user, time.Now().UTC())
	if !changed {
		return false, nil
	}
	if err := ss.userRepo.Update(ctx, tx, user); err != nil {
		return false, fmt.Errorf("persist streak: %w", err)
	}
	ss.log.Debug("Streak advanced", "user_id", user.ID, "current_streak", user.CurrentStreak, "longest_streak", user.LongestStreak)
	return true, nil
}

// advanceStreak applies the guardian rule in place:
//   - same UTC day as the last update: no-op
//   - exactly one day since the last update: streak continues
//   - first win ever, or a gap of more than one day: streak resets to 1
func advanceStreak(u *types.User, now time.Time) bool {
	today := utcDayStart(now)
	if u.LastStreakUpdate != nil && utcDayStart(*u.LastStreakUpdate).Equal(today) {
		return false
	}
	if u.LastStreakUpdate == nil {
		u.CurrentStreak = 1
	} else {
		gapDays := int(today.Sub(utcDayStart(*u.LastStreakUpdate)).Hours() / 24)
		if gapDays == 1 {
			u.CurrentStreak++
		} else {
			u.CurrentStreak = 1
		}
	}
	if u.CurrentStreak > u.LongestStreak {
		u.LongestStreak = u.CurrentStreak
	}
	stamp := now
	u.LastStreakUpdate = &stamp
	return true
}
