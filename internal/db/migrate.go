package db

import (
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/types"
)

// AutoMigrate creates or updates every table of the game domain. Foreign key
// DDL stays with the Postgres service; this list must work on the sqlite
// databases the tests run against too.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.UserAuth{},
		&types.CharacterStats{},
		&types.DailyIntention{},
		&types.FocusBlock{},
		&types.DailyResult{},
		&types.CoachingLog{},
	)
}
