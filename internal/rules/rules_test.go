package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRewards(t *testing.T) {
	r := Default()
	if r.Rewards.FocusBlockXP != 10 {
		t.Fatalf("FocusBlockXP: want=10 got=%d", r.Rewards.FocusBlockXP)
	}
	if r.Rewards.IntentionXP != 20 {
		t.Fatalf("IntentionXP: want=20 got=%d", r.Rewards.IntentionXP)
	}
	if r.Rewards.RecoveryXP != 15 {
		t.Fatalf("RecoveryXP: want=15 got=%d", r.Rewards.RecoveryXP)
	}
	if r.Limits.DefaultFocusMinutes != 50 {
		t.Fatalf("DefaultFocusMinutes: want=50 got=%d", r.Limits.DefaultFocusMinutes)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	r, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if r != Default() {
		t.Fatalf("Load(\"\"): want defaults got=%+v", r)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	body := "rewards:\n  intention_xp: 40\nlimits:\n  focus_block_minutes_max: 90\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	r, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if r.Rewards.IntentionXP != 40 {
		t.Fatalf("IntentionXP override: want=40 got=%d", r.Rewards.IntentionXP)
	}
	if r.Limits.FocusBlockMinutesMax != 90 {
		t.Fatalf("FocusBlockMinutesMax override: want=90 got=%d", r.Limits.FocusBlockMinutesMax)
	}
	// untouched keys keep their defaults
	if r.Rewards.FocusBlockXP != 10 {
		t.Fatalf("FocusBlockXP: want=10 got=%d", r.Rewards.FocusBlockXP)
	}
}

func TestLoadRejectsInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	body := "limits:\n  default_focus_minutes: 200\n  focus_block_minutes_max: 120\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Fatalf("Load accepted default_focus_minutes > focus_block_minutes_max")
	}
}

func TestFocusBlockXPFor(t *testing.T) {
	r := Default()
	cases := []struct {
		name    string
		minutes int
		want    int
	}{
		{name: "baseline", minutes: 50, want: 10},
		{name: "half", minutes: 25, want: 5},
		{name: "double_capped_by_duration_limit_elsewhere", minutes: 100, want: 20},
		{name: "short_rounds_up_to_one", minutes: 1, want: 1},
		{name: "rounds_nearest", minutes: 72, want: 14},
		{name: "zero_duration", minutes: 0, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.FocusBlockXPFor(tc.minutes)
			if got != tc.want {
				t.Fatalf("FocusBlockXPFor(%d): want=%d got=%d", tc.minutes, tc.want, got)
			}
		})
	}
}
