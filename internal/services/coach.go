package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/xecuteapp/backend/internal/normalization"
	"github.com/xecuteapp/backend/internal/platform/logger"
)

// IntentionAnalysis is the coach's verdict on a submitted intention. Weak
// intentions bounce back to the user with feedback instead of being saved.
type IntentionAnalysis struct {
	IsStrong bool   `json:"is_strong"`
	Feedback string `json:"feedback"`
}

// CoachService produces every line of coach dialogue in the product: the
// clarity gate on new intentions, day-close feedback, recovery quests and
// their follow-up coaching, and onboarding acknowledgements.
type CoachService interface {
	AnalyzeIntention(ctx context.Context, intentionText string, targetQuantity, focusBlockCount int) (*IntentionAnalysis, error)
	DailyFeedback(ctx context.Context, intentionText string, succeeded bool, completionRate float64) (string, error)
	BuildRecoveryQuest(ctx context.Context, intentionText string, completionRate float64) (string, error)
	RecoveryCoaching(ctx context.Context, quest, reflection string) (string, error)
	OnboardingReply(ctx context.Context, step, answer string) (string, error)
}

// NewCoachService picks the provider named by COACH_PROVIDER. Only the
// deterministic scripted provider ships today; the factory is the seam where
// an LLM-backed provider would plug in.
func NewCoachService(log *logger.Logger, provider string) (CoachService, error) {
	switch normalization.ParseInputString(provider) {
	case "", "scripted":
		return newScriptedCoach(log), nil
	default:
		return nil, fmt.Errorf("unknown coach provider %q", provider)
	}
}

type scriptedCoach struct {
	log *logger.Logger
}

func newScriptedCoach(log *logger.Logger) *scriptedCoach {
	return &scriptedCoach{log: log.With("service", "CoachService", "provider", "scripted")}
}

var numberWords = []string{
	"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
	"eleven", "twelve", "fifteen", "twenty", "thirty", "forty", "fifty", "hundred",
}

// AnalyzeIntention is the clarity enforcer: an intention is strong when it
// names a measurable quantity. Anything vague goes back for refinement.
func (sc *scriptedCoach) AnalyzeIntention(ctx context.Context, intentionText string, targetQuantity, focusBlockCount int) (*IntentionAnalysis, error) {
	text := strings.TrimSpace(intentionText)
	if hasQuantity(text) {
		return &IntentionAnalysis{
			IsStrong: true,
			Feedback: pickVariant(strongIntentionLines, text),
		}, nil
	}
	return &IntentionAnalysis{
		IsStrong: false,
		Feedback: pickVariant(weakIntentionLines, text),
	}, nil
}

func (sc *scriptedCoach) DailyFeedback(ctx context.Context, intentionText string, succeeded bool, completionRate float64) (string, error) {
	if succeeded {
		return pickVariant(successLines, intentionText), nil
	}
	if completionRate > 0 {
		return fmt.Sprintf("%s You still moved %.0f%% of the way there, and that effort is banked.",
			pickVariant(failureLines, intentionText), completionRate), nil
	}
	return pickVariant(failureLines, intentionText), nil
}

// BuildRecoveryQuest tiers the reflection prompt by how far the day got:
// never started, lost along the way, or stalled at the finish.
func (sc *scriptedCoach) BuildRecoveryQuest(ctx context.Context, intentionText string, completionRate float64) (string, error) {
	switch {
	case completionRate <= 0:
		return pickVariant(questStartingLines, intentionText), nil
	case completionRate <= 50:
		return pickVariant(questDistractionLines, intentionText), nil
	default:
		return pickVariant(questFinishingLines, intentionText), nil
	}
}

func (sc *scriptedCoach) RecoveryCoaching(ctx context.Context, quest, reflection string) (string, error) {
	return pickVariant(recoveryCoachingLines, reflection), nil
}

func (sc *scriptedCoach) OnboardingReply(ctx context.Context, step, answer string) (string, error) {
	lines, ok := onboardingLines[step]
	if !ok {
		return "", fmt.Errorf("unknown onboarding step %q", step)
	}
	return pickVariant(lines, answer), nil
}

// hasQuantity looks for a number in the text, as a digit or spelled out.
func hasQuantity(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		for _, nw := range numberWords {
			if w == nw {
				return true
			}
		}
	}
	return false
}

// pickVariant selects deterministically so the same input always earns the
// same line.
func pickVariant(variants []string, seed string) string {
	if len(variants) == 0 {
		return ""
	}
	sum := 0
	for _, b := range []byte(seed) {
		sum += int(b)
	}
	return variants[sum%len(variants)]
}

var strongIntentionLines = []string{
	"Locked in. A measurable target means tonight there is no debate about whether you showed up.",
	"That's a clear, countable commitment. Execute it one focus block at a time.",
	"Sharp intention. You'll know exactly when it's done, which is the whole point.",
}

var weakIntentionLines = []string{
	"This intention has no number in it. How many, how much, or how far? Make it countable so the day can be judged.",
	"Too vague to win or lose. Add a measurable quantity, like 'write 5 pages', so completion is a fact and not a feeling.",
	"A strong intention is falsifiable. Restate it with a concrete quantity you either hit or miss.",
}

var successLines = []string{
	"Intention complete. You did what you said you would do, and that is how identity gets built.",
	"Target hit. Log the win, protect the streak, and let tomorrow's intention meet today's standard.",
	"Done and counted. Days like this compound.",
}

var failureLines = []string{
	"Today didn't land, and that's data, not a verdict.",
	"The target survived the day. Tomorrow you come back with a sharper plan.",
	"A miss recorded honestly is worth more than a win remembered vaguely.",
}

var questStartingLines = []string{
	"Recovery quest: you never got moving today. What, specifically, stood between you and starting, and what will you change about tomorrow's start?",
	"Recovery quest: the day ended at zero. Walk through the moment you were supposed to start. What pulled you away, and how will you shield that moment tomorrow?",
}

var questDistractionLines = []string{
	"Recovery quest: you started but lost the thread. Name the distraction that took the day and one concrete way to lock it out of your next focus block.",
	"Recovery quest: momentum broke mid-day. What distracted you, and what boundary will you set so it cannot take the day twice?",
}

var questFinishingLines = []string{
	"Recovery quest: you were close. What stopped you from closing the final stretch, and what will you do differently in the last hour tomorrow?",
	"Recovery quest: most of the work got done, then the finish slipped. Describe the moment you stopped and how you'll push through it next time.",
}

var recoveryCoachingLines = []string{
	"That reflection is the rep that matters. You turned a missed day into a plan, which is exactly how resilience is trained.",
	"Good. You named the failure point instead of looking away. Bring that adjustment into tomorrow's first focus block.",
	"Honest reflection recorded. The streak survives because you did the harder thing: you examined the miss.",
}

var onboardingLines = map[string][]string{
	"vision": {
		"Vision received. That's the person we're building toward. Next: name the milestone that proves you're on the way.",
		"Good. A vision gives the daily grind a direction. Now set the milestone that makes it measurable.",
	},
	"milestone": {
		"Milestone locked. Now name the constraint: the one thing that most gets in your way.",
		"That's a real checkpoint. Next, be honest about the constraint that usually stops you.",
	},
	"constraint": {
		"Naming the constraint is half of beating it. Last step: your highest-leverage activity, the work that moves everything else.",
		"Understood. We'll design your days around that obstacle. Finally: what is the single activity with the highest leverage on your milestone?",
	},
	"hla": {
		"That's your highest-leverage activity. From here, every day gets one measurable intention aimed at it. Your streak starts now.",
		"Locked in. Your daily intentions should spend their focus blocks here. Onboarding complete, streak ignited.",
	},
}
