package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xecuteapp/backend/internal/platform/apierr"
	"github.com/xecuteapp/backend/internal/platform/logger"
	"github.com/xecuteapp/backend/internal/repos"
	"github.com/xecuteapp/backend/internal/types"
)

// Gain is a delta applied to a user's character stats. Zero fields are
// ignored, so callers only set what the action actually rewards.
type Gain struct {
	XP         int
	Clarity    int
	Discipline int
	Resilience int
	Commitment int
}

// StatsView is the read model returned to clients, with the level curve
// already computed.
type StatsView struct {
	XP             int `json:"xp"`
	Clarity        int `json:"clarity"`
	Discipline     int `json:"discipline"`
	Resilience     int `json:"resilience"`
	Commitment     int `json:"commitment"`
	Level          int `json:"level"`
	XPForNextLevel int `json:"xp_for_next_level"`
	XPToNextLevel  int `json:"xp_to_next_level"`
}

type StatsService interface {
	Grant(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gain Gain) (*types.CharacterStats, error)
	GetView(ctx context.Context, userID uuid.UUID) (*StatsView, error)
}

type statsService struct {
	db        *gorm.DB
	log       *logger.Logger
	statsRepo repos.CharacterStatsRepo
}

func NewStatsService(db *gorm.DB, log *logger.Logger, statsRepo repos.CharacterStatsRepo) StatsService {
	serviceLog := log.With("service", "StatsService")
	return &statsService{db: db, log: serviceLog, statsRepo: statsRepo}
}

func (ss *statsService) Grant(ctx context.Context, tx *gorm.DB, userID uuid.UUID, gain Gain) (*types.CharacterStats, error) {
	stats, err := ss.loadStats(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	stats.XP += gain.XP
	stats.Clarity += gain.Clarity
	stats.Discipline += gain.Discipline
	stats.Resilience += gain.Resilience
	stats.Commitment += gain.Commitment
	if err := ss.statsRepo.Update(ctx, tx, stats); err != nil {
		return nil, fmt.Errorf("update character stats: %w", err)
	}
	ss.log.Debug("Stats granted", "user_id", userID, "xp", gain.XP, "total_xp", stats.XP)
	return stats, nil
}

func (ss *statsService) GetView(ctx context.Context, userID uuid.UUID) (*StatsView, error) {
	stats, err := ss.loadStats(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return BuildStatsView(stats), nil
}

func (ss *statsService) loadStats(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.CharacterStats, error) {
	rows, err := ss.statsRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load character stats: %w", err)
	}
	if len(rows) == 0 {
		return nil, apierr.Errorf(http.StatusNotFound, "stats_not_found", "Character stats not found")
	}
	return rows[0], nil
}

// BuildStatsView derives the level fields from raw stats.
func BuildStatsView(stats *types.CharacterStats) *StatsView {
	level := LevelForXP(stats.XP)
	nextLevelXP := XPForLevel(level + 1)
	return &StatsView{
		XP:             stats.XP,
		Clarity:        stats.Clarity,
		Discipline:     stats.Discipline,
		Resilience:     stats.Resilience,
		Commitment:     stats.Commitment,
		Level:          level,
		XPForNextLevel: nextLevelXP,
		XPToNextLevel:  nextLevelXP - stats.XP,
	}
}
