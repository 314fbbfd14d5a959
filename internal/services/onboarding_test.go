package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestOnboardingWalksAllSteps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")

	answers := []struct {
		answer   string
		wantStep string
		wantNext string
	}{
		{answer: "Build a calm, profitable studio.", wantStep: "vision", wantNext: "milestone"},
		{answer: "Ship the first paid version.", wantStep: "milestone", wantNext: "constraint"},
		{answer: "I only have two focused hours a day.", wantStep: "constraint", wantNext: "hla"},
		{answer: "Write and publish one sales page every morning.", wantStep: "hla", wantNext: ""},
	}

	for _, step := range answers {
		result, err := env.onboarding.SubmitStep(ctx, user.ID, step.answer)
		if err != nil {
			t.Fatalf("SubmitStep(%s): %v", step.wantStep, err)
		}
		if result.Step != step.wantStep {
			t.Fatalf("step: want=%s got=%s", step.wantStep, result.Step)
		}
		if result.Acknowledgement == "" {
			t.Fatalf("acknowledgement empty for step %s", step.wantStep)
		}
		if step.wantNext == "" {
			if result.NextStep != nil {
				t.Fatalf("next step after final: want=nil got=%s", *result.NextStep)
			}
			if !result.OnboardingComplete {
				t.Fatalf("onboarding complete: want=true got=false")
			}
		} else {
			if result.NextStep == nil || *result.NextStep != step.wantNext {
				t.Fatalf("next step: want=%s got=%v", step.wantNext, result.NextStep)
			}
			if result.OnboardingComplete {
				t.Fatalf("onboarding complete early at step %s", step.wantStep)
			}
		}
	}

	// Finishing onboarding is the first win.
	me, err := env.users.GetMe(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.CurrentStreak != 1 {
		t.Fatalf("streak after onboarding: want=1 got=%d", me.CurrentStreak)
	}
	if me.HighestLeverageActivity == nil {
		t.Fatalf("highest leverage activity not stored")
	}

	_, err = env.onboarding.SubmitStep(ctx, user.ID, "One more answer.")
	wantAPIError(t, err, http.StatusBadRequest, "onboarding_complete")

	logs, err := env.users.ListCoachingLogs(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("ListCoachingLogs: %v", err)
	}
	if len(logs) != 4 {
		t.Fatalf("coaching logs: want=4 got=%d", len(logs))
	}
}

func TestOnboardingValidatesAnswers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")

	_, err := env.onboarding.SubmitStep(ctx, user.ID, "   ")
	wantAPIError(t, err, http.StatusBadRequest, "validation_failed")

	_, err = env.onboarding.SubmitStep(ctx, user.ID, strings.Repeat("x", 2001))
	wantAPIError(t, err, http.StatusBadRequest, "validation_failed")

	// Walk to the final step, then reject a too-short activity.
	for _, answer := range []string{
		"Build a calm, profitable studio.",
		"Ship the first paid version.",
		"I only have two focused hours a day.",
	} {
		if _, err := env.onboarding.SubmitStep(ctx, user.ID, answer); err != nil {
			t.Fatalf("SubmitStep: %v", err)
		}
	}
	_, err = env.onboarding.SubmitStep(ctx, user.ID, "too short")
	wantAPIError(t, err, http.StatusBadRequest, "validation_failed")
}
