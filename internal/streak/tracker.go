// Package streak converts behavioral consistency into a numeric trust signal:
// actual consecutive-day streaks, a read-time decayed projection, and a tiered
// visibility multiplier.
package streak

import (
	"time"

	"dailymatch-engine/pkg/models"
)

// Tracker applies streak transitions and read-time projections. The zero
// value is not usable; construct with NewTracker.
type Tracker struct {
	decay DecayFunc
}

// NewTracker builds a Tracker with the given decay function, falling back to
// DefaultDecay when nil.
func NewTracker(decay DecayFunc) *Tracker {
	if decay == nil {
		decay = DefaultDecay
	}
	return &Tracker{decay: decay}
}

// Advance applies one qualifying activity event to a streak record. The
// transition is pure: exactly one day since the last active date extends the
// streak, same day is a no-op, anything older resets to 1. Callers must
// serialize concurrent events for the same candidate (the store does this).
func (t *Tracker) Advance(rec models.StreakRecord, now time.Time) models.StreakRecord {
	today := DateOf(now)

	switch DaysBetween(DateOf(rec.LastActiveDate), today) {
	case 0:
		if rec.CurrentStreak == 0 {
			rec.CurrentStreak = 1
		}
	case 1:
		rec.CurrentStreak++
	default:
		rec.CurrentStreak = 1
	}

	if rec.CurrentStreak > rec.LongestStreak {
		rec.LongestStreak = rec.CurrentStreak
	}
	rec.LastActiveDate = today
	return rec
}

// Project derives the read-time view of a streak record: the decayed visual
// streak plus the visibility tier mapped from the actual streak.
func (t *Tracker) Project(rec models.StreakRecord, now time.Time) models.StreakInfo {
	missed := 0
	if !rec.LastActiveDate.IsZero() {
		missed = DaysBetween(DateOf(rec.LastActiveDate), DateOf(now))
	}
	if missed < 0 {
		missed = 0
	}

	tier := TierFor(rec.CurrentStreak)
	return models.StreakInfo{
		Current:        rec.CurrentStreak,
		Visual:         t.decay(rec.CurrentStreak, missed),
		Longest:        rec.LongestStreak,
		Multiplier:     tier.Multiplier,
		Tier:           tier.Name,
		LastActiveDate: rec.LastActiveDate,
	}
}

// DateOf truncates an instant to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b. Both arguments
// must already be midnight-aligned.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
