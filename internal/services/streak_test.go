package services

import (
	"testing"
	"time"

	"github.com/xecuteapp/backend/internal/types"
)

func TestAdvanceStreakFirstWin(t *testing.T) {
	u := &types.User{}
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	changed := advanceStreak(u, now)

	if !changed {
		t.Fatalf("changed: want=true got=false")
	}
	if u.CurrentStreak != 1 {
		t.Fatalf("current streak: want=1 got=%d", u.CurrentStreak)
	}
	if u.LongestStreak != 1 {
		t.Fatalf("longest streak: want=1 got=%d", u.LongestStreak)
	}
	if u.LastStreakUpdate == nil || !u.LastStreakUpdate.Equal(now) {
		t.Fatalf("last streak update: want=%v got=%v", now, u.LastStreakUpdate)
	}
}

func TestAdvanceStreakConsecutiveDay(t *testing.T) {
	yesterday := time.Date(2025, 3, 9, 23, 50, 0, 0, time.UTC)
	u := &types.User{CurrentStreak: 4, LongestStreak: 9, LastStreakUpdate: &yesterday}
	now := time.Date(2025, 3, 10, 0, 5, 0, 0, time.UTC)

	if changed := advanceStreak(u, now); !changed {
		t.Fatalf("changed: want=true got=false")
	}
	if u.CurrentStreak != 5 {
		t.Fatalf("current streak: want=5 got=%d", u.CurrentStreak)
	}
	if u.LongestStreak != 9 {
		t.Fatalf("longest streak: want=9 got=%d", u.LongestStreak)
	}
}

func TestAdvanceStreakGapResets(t *testing.T) {
	lastWeek := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	u := &types.User{CurrentStreak: 12, LongestStreak: 12, LastStreakUpdate: &lastWeek}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	if changed := advanceStreak(u, now); !changed {
		t.Fatalf("changed: want=true got=false")
	}
	if u.CurrentStreak != 1 {
		t.Fatalf("current streak: want=1 got=%d", u.CurrentStreak)
	}
	if u.LongestStreak != 12 {
		t.Fatalf("longest streak preserved: want=12 got=%d", u.LongestStreak)
	}
}

func TestAdvanceStreakSameDayIsIdempotent(t *testing.T) {
	morning := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	u := &types.User{CurrentStreak: 3, LongestStreak: 3, LastStreakUpdate: &morning}
	evening := time.Date(2025, 3, 10, 21, 30, 0, 0, time.UTC)

	if changed := advanceStreak(u, evening); changed {
		t.Fatalf("changed: want=false got=true")
	}
	if u.CurrentStreak != 3 {
		t.Fatalf("current streak: want=3 got=%d", u.CurrentStreak)
	}
	if !u.LastStreakUpdate.Equal(morning) {
		t.Fatalf("last streak update rewritten: want=%v got=%v", morning, u.LastStreakUpdate)
	}
}

func TestAdvanceStreakNewLongest(t *testing.T) {
	yesterday := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	u := &types.User{CurrentStreak: 7, LongestStreak: 7, LastStreakUpdate: &yesterday}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	advanceStreak(u, now)

	if u.CurrentStreak != 8 {
		t.Fatalf("current streak: want=8 got=%d", u.CurrentStreak)
	}
	if u.LongestStreak != 8 {
		t.Fatalf("longest streak: want=8 got=%d", u.LongestStreak)
	}
}
