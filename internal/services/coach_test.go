package services

import (
	"context"
	"strings"
	"testing"

	"github.com/xecuteapp/backend/internal/platform/logger"
)

func newTestCoach(t *testing.T) CoachService {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	coach, err := NewCoachService(log, "scripted")
	if err != nil {
		t.Fatalf("NewCoachService: %v", err)
	}
	return coach
}

func TestNewCoachServiceRejectsUnknownProvider(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	if _, err := NewCoachService(log, "gpt-42"); err == nil {
		t.Fatalf("NewCoachService accepted unknown provider")
	}
	if _, err := NewCoachService(log, ""); err != nil {
		t.Fatalf("NewCoachService rejected empty provider: %v", err)
	}
}

func TestAnalyzeIntentionClarityGate(t *testing.T) {
	coach := newTestCoach(t)
	cases := []struct {
		name       string
		text       string
		wantStrong bool
	}{
		{name: "digit_quantity", text: "Write 5 pages of the launch plan", wantStrong: true},
		{name: "spelled_quantity", text: "Record three sales calls", wantStrong: true},
		{name: "vague", text: "Work on the business", wantStrong: false},
		{name: "vague_feelings", text: "Be more productive today", wantStrong: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := coach.AnalyzeIntention(context.Background(), tc.text, 3, 2)
			if err != nil {
				t.Fatalf("AnalyzeIntention: %v", err)
			}
			if got.IsStrong != tc.wantStrong {
				t.Fatalf("IsStrong(%q): want=%v got=%v", tc.text, tc.wantStrong, got.IsStrong)
			}
			if got.Feedback == "" {
				t.Fatalf("AnalyzeIntention(%q) returned empty feedback", tc.text)
			}
		})
	}
}

func TestAnalyzeIntentionDeterministic(t *testing.T) {
	coach := newTestCoach(t)
	first, err := coach.AnalyzeIntention(context.Background(), "Ship 2 features", 2, 2)
	if err != nil {
		t.Fatalf("AnalyzeIntention: %v", err)
	}
	second, err := coach.AnalyzeIntention(context.Background(), "Ship 2 features", 2, 2)
	if err != nil {
		t.Fatalf("AnalyzeIntention: %v", err)
	}
	if first.Feedback != second.Feedback {
		t.Fatalf("AnalyzeIntention not deterministic: %q vs %q", first.Feedback, second.Feedback)
	}
}

func TestBuildRecoveryQuestBands(t *testing.T) {
	coach := newTestCoach(t)
	cases := []struct {
		name     string
		rate     float64
		wantHint string
	}{
		{name: "never_started", rate: 0, wantHint: "start"},
		{name: "distracted", rate: 40, wantHint: "distract"},
		{name: "nearly_finished", rate: 80, wantHint: "fin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quest, err := coach.BuildRecoveryQuest(context.Background(), "Write 5 pages", tc.rate)
			if err != nil {
				t.Fatalf("BuildRecoveryQuest: %v", err)
			}
			if quest == "" {
				t.Fatalf("BuildRecoveryQuest returned empty quest")
			}
			if !strings.Contains(strings.ToLower(quest), tc.wantHint) {
				t.Fatalf("quest band mismatch at rate %.0f: %q does not mention %q", tc.rate, quest, tc.wantHint)
			}
		})
	}
}

func TestOnboardingReplyKnowsEveryStep(t *testing.T) {
	coach := newTestCoach(t)
	for _, step := range []string{"vision", "milestone", "constraint", "hla"} {
		reply, err := coach.OnboardingReply(context.Background(), step, "my answer")
		if err != nil {
			t.Fatalf("OnboardingReply(%q): %v", step, err)
		}
		if reply == "" {
			t.Fatalf("OnboardingReply(%q) returned empty reply", step)
		}
	}
	if _, err := coach.OnboardingReply(context.Background(), "astrology", "x"); err == nil {
		t.Fatalf("OnboardingReply accepted unknown step")
	}
}
