package services

import (
	"context"
	"net/http"
	"testing"
)

func TestUpdateMeProfileFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")

	name := "Ada L."
	vision := "Build a calm, profitable studio."
	minutes := 25
	updated, err := env.users.UpdateMe(ctx, user.ID, UpdateUserInput{
		Name:                     &name,
		Vision:                   &vision,
		DefaultFocusBlockMinutes: &minutes,
	})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if updated.Name != "Ada L." {
		t.Fatalf("name: want=Ada L. got=%s", updated.Name)
	}
	if updated.Vision == nil || *updated.Vision != vision {
		t.Fatalf("vision not stored")
	}
	if updated.DefaultFocusBlockMinutes != 25 {
		t.Fatalf("default minutes: want=25 got=%d", updated.DefaultFocusBlockMinutes)
	}

	badMinutes := 500
	_, err = env.users.UpdateMe(ctx, user.ID, UpdateUserInput{DefaultFocusBlockMinutes: &badMinutes})
	wantAPIError(t, err, http.StatusBadRequest, "validation_failed")

	emptyName := "  "
	_, err = env.users.UpdateMe(ctx, user.ID, UpdateUserInput{Name: &emptyName})
	wantAPIError(t, err, http.StatusBadRequest, "validation_failed")
}

func TestUpdateMeFirstHLACountsAsWin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")

	hla := "Write and publish one sales page every morning."
	updated, err := env.users.UpdateMe(ctx, user.ID, UpdateUserInput{HighestLeverageActivity: &hla})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if updated.CurrentStreak != 1 {
		t.Fatalf("streak after first HLA: want=1 got=%d", updated.CurrentStreak)
	}

	// Editing it later is not another win.
	hla2 := "Record one customer interview every morning."
	updated, err = env.users.UpdateMe(ctx, user.ID, UpdateUserInput{HighestLeverageActivity: &hla2})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if updated.CurrentStreak != 1 {
		t.Fatalf("streak after HLA edit: want=1 got=%d", updated.CurrentStreak)
	}

	short := "too short"
	_, err = env.users.UpdateMe(ctx, user.ID, UpdateUserInput{HighestLeverageActivity: &short})
	wantAPIError(t, err, http.StatusBadRequest, "validation_failed")
}

func TestUpdateMeHLACompletesOnboarding(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "ada@example.com")

	vision := "Build a calm, profitable studio."
	milestone := "Ship the first paid version."
	constraint := "I only have two focused hours a day."
	hla := "Write and publish one sales page every morning."
	updated, err := env.users.UpdateMe(ctx, user.ID, UpdateUserInput{
		Vision:                  &vision,
		Milestone:               &milestone,
		Constraint:              &constraint,
		HighestLeverageActivity: &hla,
	})
	if err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if !updated.OnboardingComplete() {
		t.Fatalf("onboarding complete: want=true got=false")
	}
	if updated.NextOnboardingStep() != "" {
		t.Fatalf("next onboarding step: want=empty got=%s", updated.NextOnboardingStep())
	}
}
