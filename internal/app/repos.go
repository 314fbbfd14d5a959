package app

import (
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	UserAuth       repos.UserAuthRepo
	CharacterStats repos.CharacterStatsRepo
	DailyIntention repos.DailyIntentionRepo
	FocusBlock     repos.FocusBlockRepo
	DailyResult    repos.DailyResultRepo
	CoachingLog    repos.CoachingLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserAuth:       repos.NewUserAuthRepo(db, log),
		CharacterStats: repos.NewCharacterStatsRepo(db, log),
		DailyIntention: repos.NewDailyIntentionRepo(db, log),
		FocusBlock:     repos.NewFocusBlockRepo(db, log),
		DailyResult:    repos.NewDailyResultRepo(db, log),
		CoachingLog:    repos.NewCoachingLogRepo(db, log),
	}
}
