package rules

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xecuteapp/backend/internal/platform/logger"
)

// Rewards are the XP and attribute grants handed out by the game loop.
// FocusBlockXP is the award for a block of BaselineFocusMinutes; shorter and
// longer blocks are pro-rated.
type Rewards struct {
	FocusBlockXP         int `yaml:"focus_block_xp"`
	BaselineFocusMinutes int `yaml:"baseline_focus_minutes"`
	IntentionXP          int `yaml:"intention_xp"`
	RecoveryXP           int `yaml:"recovery_xp"`
	ClarityPerIntention  int `yaml:"clarity_per_intention"`
	DisciplinePerWin     int `yaml:"discipline_per_win"`
	ResiliencePerRecover int `yaml:"resilience_per_recover"`
}

type Limits struct {
	TargetQuantityMax    int `yaml:"target_quantity_max"`
	CompletedQuantityMax int `yaml:"completed_quantity_max"`
	FocusBlockCountMax   int `yaml:"focus_block_count_max"`
	FocusBlockMinutesMax int `yaml:"focus_block_minutes_max"`
	DefaultFocusMinutes  int `yaml:"default_focus_minutes"`
	IntentionTextMax     int `yaml:"intention_text_max"`
	ReflectionTextMax    int `yaml:"reflection_text_max"`
	OnboardingAnswerMax  int `yaml:"onboarding_answer_max"`
	HLAMinLen            int `yaml:"hla_min_len"`
	HLAMaxLen            int `yaml:"hla_max_len"`
}

type Rules struct {
	Rewards Rewards `yaml:"rewards"`
	Limits  Limits  `yaml:"limits"`
}

func Default() Rules {
	return Rules{
		Rewards: Rewards{
			FocusBlockXP:         10,
			BaselineFocusMinutes: 50,
			IntentionXP:          20,
			RecoveryXP:           15,
			ClarityPerIntention:  1,
			DisciplinePerWin:     1,
			ResiliencePerRecover: 1,
		},
		Limits: Limits{
			TargetQuantityMax:    100,
			CompletedQuantityMax: 1000,
			FocusBlockCountMax:   30,
			FocusBlockMinutesMax: 120,
			DefaultFocusMinutes:  50,
			IntentionTextMax:     2000,
			ReflectionTextMax:    2000,
			OnboardingAnswerMax:  2000,
			HLAMinLen:            10,
			HLAMaxLen:            8000,
		},
	}
}

// Load reads rule overrides from a YAML file on top of the defaults. An empty
// path returns the defaults unchanged.
func Load(path string, log *logger.Logger) (Rules, error) {
	r := Default()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse rules file: %w", err)
	}
	if err := r.validate(); err != nil {
		return Default(), fmt.Errorf("invalid rules file: %w", err)
	}
	if log != nil {
		log.Info("Game rules loaded", "path", path)
	}
	return r, nil
}

func (r Rules) validate() error {
	if r.Rewards.BaselineFocusMinutes <= 0 {
		return fmt.Errorf("baseline_focus_minutes must be positive")
	}
	if r.Limits.TargetQuantityMax < 1 || r.Limits.FocusBlockCountMax < 1 {
		return fmt.Errorf("quantity limits must be at least 1")
	}
	if r.Limits.FocusBlockMinutesMax < 1 || r.Limits.DefaultFocusMinutes < 1 {
		return fmt.Errorf("focus minute limits must be at least 1")
	}
	if r.Limits.DefaultFocusMinutes > r.Limits.FocusBlockMinutesMax {
		return fmt.Errorf("default_focus_minutes exceeds focus_block_minutes_max")
	}
	return nil
}

// FocusBlockXPFor pro-rates the focus block award by duration, never below 1.
func (r Rules) FocusBlockXPFor(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 0
	}
	base := float64(r.Rewards.FocusBlockXP)
	ratio := float64(durationMinutes) / float64(r.Rewards.BaselineFocusMinutes)
	xp := int(math.Round(base * ratio))
	if xp < 1 {
		xp = 1
	}
	return xp
}
