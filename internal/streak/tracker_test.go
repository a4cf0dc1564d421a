package streak_test

import (
	"testing"
	"time"

	"dailymatch-engine/internal/streak"
	"dailymatch-engine/pkg/models"
)

var today = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return streak.DateOf(today.AddDate(0, 0, -n))
}

// ── Advance ────────────────────────────────────────────────────────────────

func TestAdvance_Transitions(t *testing.T) {
	tr := streak.NewTracker(nil)

	cases := []struct {
		name        string
		rec         models.StreakRecord
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "first ever activity",
			rec:         models.StreakRecord{CandidateID: "c1"},
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name: "active yesterday extends",
			rec: models.StreakRecord{
				CurrentStreak:  4,
				LongestStreak:  6,
				LastActiveDate: daysAgo(1),
			},
			wantCurrent: 5,
			wantLongest: 6,
		},
		{
			name: "already active today is a no-op",
			rec: models.StreakRecord{
				CurrentStreak:  4,
				LongestStreak:  6,
				LastActiveDate: daysAgo(0),
			},
			wantCurrent: 4,
			wantLongest: 6,
		},
		{
			name: "gap resets to one",
			rec: models.StreakRecord{
				CurrentStreak:  9,
				LongestStreak:  9,
				LastActiveDate: daysAgo(3),
			},
			wantCurrent: 1,
			wantLongest: 9,
		},
		{
			name: "extension raises the longest streak",
			rec: models.StreakRecord{
				CurrentStreak:  6,
				LongestStreak:  6,
				LastActiveDate: daysAgo(1),
			},
			wantCurrent: 7,
			wantLongest: 7,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tr.Advance(tc.rec, today)
			if got.CurrentStreak != tc.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tc.wantCurrent)
			}
			if got.LongestStreak != tc.wantLongest {
				t.Errorf("LongestStreak = %d, want %d", got.LongestStreak, tc.wantLongest)
			}
			if !got.LastActiveDate.Equal(streak.DateOf(today)) {
				t.Errorf("LastActiveDate = %v, want today", got.LastActiveDate)
			}
		})
	}
}

func TestAdvance_TimeOfDayDoesNotMatter(t *testing.T) {
	tr := streak.NewTracker(nil)
	rec := models.StreakRecord{CurrentStreak: 2, LongestStreak: 2, LastActiveDate: daysAgo(1)}

	lateYesterdayPlusOne := streak.DateOf(today).Add(5 * time.Minute)
	got := tr.Advance(rec, lateYesterdayPlusOne)
	if got.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", got.CurrentStreak)
	}
}

// ── Decay ──────────────────────────────────────────────────────────────────

func TestStepDecay(t *testing.T) {
	decay := streak.StepDecay(1, 5)

	cases := []struct {
		name    string
		current int
		missed  int
		want    int
	}{
		{"no missed days keeps the streak", 7, 0, 7},
		{"one missed day costs one step", 7, 1, 6},
		{"two missed days", 7, 2, 4},
		{"four missed days", 7, 4, 1},
		{"horizon missed days zeroes out", 7, 5, 0},
		{"far past horizon stays zero", 7, 12, 0},
		{"zero streak stays zero", 0, 3, 0},
		{"streak of one after one miss", 1, 1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decay(tc.current, tc.missed); got != tc.want {
				t.Errorf("decay(%d, %d) = %d, want %d", tc.current, tc.missed, got, tc.want)
			}
		})
	}
}

func TestStepDecay_WiderGraceWindow(t *testing.T) {
	decay := streak.StepDecay(2, 6)

	cases := []struct {
		name    string
		current int
		missed  int
		want    int
	}{
		{"first grace day", 8, 1, 7},
		{"second grace day", 8, 2, 6},
		{"past the grace window decays proportionally", 8, 3, 4},
		{"horizon zeroes out", 8, 6, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decay(tc.current, tc.missed); got != tc.want {
				t.Errorf("decay(%d, %d) = %d, want %d", tc.current, tc.missed, got, tc.want)
			}
		})
	}
}

func TestStepDecay_PartialDecayStaysBetweenZeroAndCurrent(t *testing.T) {
	decay := streak.StepDecay(1, 5)
	for current := 2; current <= 20; current++ {
		for missed := 1; missed < 5; missed++ {
			got := decay(current, missed)
			if got <= 0 && current > missed {
				// Large enough streaks must retain something before the horizon.
				if current >= 5 {
					t.Errorf("decay(%d, %d) = %d, expected a positive remainder", current, missed, got)
				}
				continue
			}
			if got >= current {
				t.Errorf("decay(%d, %d) = %d, must be below the actual streak", current, missed, got)
			}
		}
	}
}

// ── Tiers ──────────────────────────────────────────────────────────────────

func TestTierFor_Boundaries(t *testing.T) {
	cases := []struct {
		current        int
		wantMultiplier int
		wantName       string
	}{
		{0, 1, "Invisible"},
		{1, 2, "Low"},
		{2, 2, "Low"},
		{3, 4, "Medium"},
		{4, 4, "Medium"},
		{5, 6, "High"},
		{6, 6, "High"},
		{7, 8, "Rising"},
		{9, 8, "Rising"},
		{10, 10, "Elite"},
		{40, 10, "Elite"},
	}

	for _, tc := range cases {
		got := streak.TierFor(tc.current)
		if got.Multiplier != tc.wantMultiplier || got.Name != tc.wantName {
			t.Errorf("TierFor(%d) = %dx %s, want %dx %s",
				tc.current, got.Multiplier, got.Name, tc.wantMultiplier, tc.wantName)
		}
	}
}

// ── Project ────────────────────────────────────────────────────────────────

func TestProject(t *testing.T) {
	tr := streak.NewTracker(nil)

	rec := models.StreakRecord{
		CandidateID:    "c1",
		CurrentStreak:  7,
		LongestStreak:  9,
		LastActiveDate: daysAgo(1),
	}

	info := tr.Project(rec, today)
	if info.Current != 7 {
		t.Errorf("Current = %d, want 7", info.Current)
	}
	if info.Visual != 6 {
		t.Errorf("Visual = %d, want 6 after one missed day", info.Visual)
	}
	if info.Visual <= 0 || info.Visual >= info.Current {
		t.Errorf("Visual = %d, must sit strictly between 0 and Current", info.Visual)
	}
	if info.Tier != "Rising" || info.Multiplier != 8 {
		t.Errorf("Tier = %s/%dx, want Rising/8x", info.Tier, info.Multiplier)
	}
	if info.Longest != 9 {
		t.Errorf("Longest = %d, want 9", info.Longest)
	}
}

func TestProject_FullyDecayedAfterLongAbsence(t *testing.T) {
	tr := streak.NewTracker(nil)

	rec := models.StreakRecord{CurrentStreak: 8, LongestStreak: 8, LastActiveDate: daysAgo(6)}
	info := tr.Project(rec, today)
	if info.Visual != 0 {
		t.Errorf("Visual = %d, want 0 after six missed days", info.Visual)
	}
	if info.Current != 8 {
		t.Errorf("Current = %d, the actual streak should not be rewritten on read", info.Current)
	}
}

func TestProject_NeverActive(t *testing.T) {
	tr := streak.NewTracker(nil)

	info := tr.Project(models.StreakRecord{CandidateID: "c1"}, today)
	if info.Current != 0 || info.Visual != 0 {
		t.Errorf("expected zero streak, got Current=%d Visual=%d", info.Current, info.Visual)
	}
	if info.Tier != "Invisible" || info.Multiplier != 1 {
		t.Errorf("Tier = %s/%dx, want Invisible/1x", info.Tier, info.Multiplier)
	}
}
