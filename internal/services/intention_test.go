package services

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestCreateIntentionStrongEarnsClarity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")

	view := createTodayIntention(t, env, user.ID)

	if view.Status != "pending" {
		t.Fatalf("status: want=pending got=%s", view.Status)
	}
	if view.AIFeedback == nil || *view.AIFeedback == "" {
		t.Fatalf("ai feedback missing on created intention")
	}

	stats, err := env.stats.GetView(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if stats.Clarity != 1 {
		t.Fatalf("clarity: want=1 got=%d", stats.Clarity)
	}
}

func TestCreateIntentionVagueNeedsRefinement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")

	decision, err := env.intentions.Create(ctx, user.ID, CreateIntentionInput{
		IntentionText:   "Work on the business",
		TargetQuantity:  1,
		FocusBlockCount: 2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !decision.NeedsRefinement {
		t.Fatalf("needs refinement: want=true got=false")
	}
	if decision.Intention != nil {
		t.Fatalf("intention persisted despite refinement request")
	}

	// Nothing was created, today is still empty.
	_, err = env.intentions.GetToday(ctx, user.ID)
	wantAPIError(t, err, http.StatusNotFound, "no_intention_today")

	// Resubmitting with is_refined overrides the coach, without clarity.
	decision, err = env.intentions.Create(ctx, user.ID, CreateIntentionInput{
		IntentionText:   "Work on the business",
		TargetQuantity:  1,
		FocusBlockCount: 2,
		IsRefined:       true,
	})
	if err != nil {
		t.Fatalf("Create refined: %v", err)
	}
	if decision.NeedsRefinement || decision.Intention == nil {
		t.Fatalf("refined intention not persisted: %+v", decision)
	}

	stats, err := env.stats.GetView(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if stats.Clarity != 0 {
		t.Fatalf("clarity after refined override: want=0 got=%d", stats.Clarity)
	}
}

func TestCreateIntentionOncePerDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")
	createTodayIntention(t, env, user.ID)

	_, err := env.intentions.Create(ctx, user.ID, CreateIntentionInput{
		IntentionText:   "Write 3 more pages",
		TargetQuantity:  3,
		FocusBlockCount: 1,
	})
	wantAPIError(t, err, http.StatusBadRequest, "intention_exists")
}

func TestCreateIntentionValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")

	tests := []struct {
		name  string
		input CreateIntentionInput
	}{
		{name: "empty text", input: CreateIntentionInput{IntentionText: "  ", TargetQuantity: 1, FocusBlockCount: 1}},
		{name: "zero target", input: CreateIntentionInput{IntentionText: "Write 5 pages", TargetQuantity: 0, FocusBlockCount: 1}},
		{name: "target over cap", input: CreateIntentionInput{IntentionText: "Write 5 pages", TargetQuantity: 101, FocusBlockCount: 1}},
		{name: "zero blocks", input: CreateIntentionInput{IntentionText: "Write 5 pages", TargetQuantity: 5, FocusBlockCount: 0}},
		{name: "blocks over cap", input: CreateIntentionInput{IntentionText: "Write 5 pages", TargetQuantity: 5, FocusBlockCount: 31}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.intentions.Create(ctx, user.ID, tt.input)
			wantAPIError(t, err, http.StatusBadRequest, "validation_failed")
		})
	}
}

func TestUpdateProgressMovesForwardOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")
	createTodayIntention(t, env, user.ID)

	view, err := env.intentions.UpdateProgress(ctx, user.ID, 3)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if view.CompletedQuantity != 3 {
		t.Fatalf("completed: want=3 got=%d", view.CompletedQuantity)
	}
	if view.Status != "in_progress" {
		t.Fatalf("status after first progress: want=in_progress got=%s", view.Status)
	}

	_, err = env.intentions.UpdateProgress(ctx, user.ID, 2)
	wantAPIError(t, err, http.StatusBadRequest, "progress_backwards")

	// Overshooting clamps at the target and never auto-completes.
	view, err = env.intentions.UpdateProgress(ctx, user.ID, 9)
	if err != nil {
		t.Fatalf("UpdateProgress overshoot: %v", err)
	}
	if view.CompletedQuantity != 5 {
		t.Fatalf("clamped: want=5 got=%d", view.CompletedQuantity)
	}
	if view.Status != "in_progress" {
		t.Fatalf("status after target met: want=in_progress got=%s", view.Status)
	}
}

func TestCompleteRequiresTargetAndPaysOut(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")
	createTodayIntention(t, env, user.ID)

	if _, err := env.intentions.UpdateProgress(ctx, user.ID, 3); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	_, err := env.intentions.Complete(ctx, user.ID)
	wantAPIError(t, err, http.StatusBadRequest, "target_not_met")

	if _, err := env.intentions.UpdateProgress(ctx, user.ID, 5); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	dayClose, err := env.intentions.Complete(ctx, user.ID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !dayClose.Result.Succeeded {
		t.Fatalf("result succeeded: want=true got=false")
	}
	if dayClose.Result.XPAwarded != 20 {
		t.Fatalf("xp awarded: want=20 got=%d", dayClose.Result.XPAwarded)
	}
	if dayClose.Intention.Status != "completed" {
		t.Fatalf("intention status: want=completed got=%s", dayClose.Intention.Status)
	}

	stats, err := env.stats.GetView(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if stats.XP != 20 {
		t.Fatalf("stats xp: want=20 got=%d", stats.XP)
	}
	if stats.Discipline != 1 {
		t.Fatalf("discipline: want=1 got=%d", stats.Discipline)
	}

	me, err := env.users.GetMe(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.CurrentStreak != 1 {
		t.Fatalf("streak after win: want=1 got=%d", me.CurrentStreak)
	}

	// The day is resolved now.
	_, err = env.intentions.Complete(ctx, user.ID)
	wantAPIError(t, err, http.StatusBadRequest, "already_resolved")
	_, err = env.intentions.UpdateProgress(ctx, user.ID, 5)
	wantAPIError(t, err, http.StatusBadRequest, "already_resolved")
}

func TestFailIssuesRecoveryQuest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")
	view := createTodayIntention(t, env, user.ID)

	if _, err := env.intentions.UpdateProgress(ctx, user.ID, 2); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	dayClose, err := env.intentions.Fail(ctx, user.ID)
	if err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if dayClose.Result.Succeeded {
		t.Fatalf("result succeeded: want=false got=true")
	}
	if dayClose.Result.RecoveryQuest == nil || *dayClose.Result.RecoveryQuest == "" {
		t.Fatalf("recovery quest missing on failed day")
	}
	if dayClose.Result.XPAwarded != 0 {
		t.Fatalf("xp on failure: want=0 got=%d", dayClose.Result.XPAwarded)
	}

	stats, err := env.stats.GetView(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if stats.XP != 0 {
		t.Fatalf("stats xp after failure: want=0 got=%d", stats.XP)
	}

	me, err := env.users.GetMe(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.CurrentStreak != 0 {
		t.Fatalf("streak after failure: want=0 got=%d", me.CurrentStreak)
	}

	result, err := env.results.GetByIntentionID(ctx, user.ID, view.ID)
	if err != nil {
		t.Fatalf("GetByIntentionID: %v", err)
	}
	if !result.RecoveryPending() {
		t.Fatalf("recovery pending: want=true got=false")
	}
}

func TestRolloverFailsExpiredIntention(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")
	view := createTodayIntention(t, env, user.ID)

	backdateIntention(t, env, view.ID, time.Now().UTC().Add(-24*time.Hour))

	// Any day-scoped read settles the rollover.
	_, err := env.intentions.GetToday(ctx, user.ID)
	wantAPIError(t, err, http.StatusNotFound, "no_intention_today")

	result, err := env.results.GetByIntentionID(ctx, user.ID, view.ID)
	if err != nil {
		t.Fatalf("GetByIntentionID: %v", err)
	}
	if result.Succeeded {
		t.Fatalf("rolled-over result: want failed got succeeded")
	}
	if result.RecoveryQuest == nil {
		t.Fatalf("rolled-over failure missing recovery quest")
	}

	// The unrecovered failure blocks a new intention.
	_, err = env.intentions.Create(ctx, user.ID, CreateIntentionInput{
		IntentionText:   "Write 5 pages",
		TargetQuantity:  5,
		FocusBlockCount: 2,
	})
	wantAPIError(t, err, http.StatusConflict, "recovery_pending")
}

func TestRolloverCompletesMetTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")
	view := createTodayIntention(t, env, user.ID)

	if _, err := env.intentions.UpdateProgress(ctx, user.ID, 5); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	backdateIntention(t, env, view.ID, time.Now().UTC().Add(-24*time.Hour))

	_, err := env.intentions.GetToday(ctx, user.ID)
	wantAPIError(t, err, http.StatusNotFound, "no_intention_today")

	result, err := env.results.GetByIntentionID(ctx, user.ID, view.ID)
	if err != nil {
		t.Fatalf("GetByIntentionID: %v", err)
	}
	if !result.Succeeded {
		t.Fatalf("rolled-over met target: want succeeded got failed")
	}
	if result.XPAwarded != 20 {
		t.Fatalf("rollover xp: want=20 got=%d", result.XPAwarded)
	}

	// Reward lands, but an auto-closed day never advances the streak.
	stats, err := env.stats.GetView(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if stats.XP != 20 {
		t.Fatalf("stats xp after rollover win: want=20 got=%d", stats.XP)
	}
	me, err := env.users.GetMe(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.CurrentStreak != 0 {
		t.Fatalf("streak after rollover win: want=0 got=%d", me.CurrentStreak)
	}

	// A succeeded rollover does not block the new day.
	createTodayIntention(t, env, user.ID)
}

func TestGameStateSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")

	state, err := env.gameState.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.TodayIntention != nil {
		t.Fatalf("today intention on fresh account: want=nil")
	}
	if state.OnboardingComplete {
		t.Fatalf("onboarding complete on fresh account: want=false")
	}
	if state.NextOnboardingStep == nil || *state.NextOnboardingStep != "vision" {
		t.Fatalf("next onboarding step: want=vision got=%v", state.NextOnboardingStep)
	}
	if state.Stats == nil || state.Stats.Level != 1 {
		t.Fatalf("fresh stats level: want=1 got=%+v", state.Stats)
	}

	view := createTodayIntention(t, env, user.ID)
	state, err = env.gameState.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.TodayIntention == nil || state.TodayIntention.ID != view.ID {
		t.Fatalf("today intention missing from game state")
	}

	// Fail yesterday's day and confirm it surfaces as unresolved.
	if _, err := env.intentions.Fail(ctx, user.ID); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	backdateIntention(t, env, view.ID, time.Now().UTC().Add(-24*time.Hour))

	state, err = env.gameState.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.TodayIntention != nil {
		t.Fatalf("today intention after backdate: want=nil")
	}
	if state.UnresolvedIntention == nil || state.UnresolvedIntention.ID != view.ID {
		t.Fatalf("unresolved intention missing from game state")
	}
	if state.UnresolvedIntention.DailyResult == nil {
		t.Fatalf("unresolved intention missing its result")
	}
}
