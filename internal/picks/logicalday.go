// Package picks implements the timezone-aware daily selection scheduler: it
// decides when a candidate's pick set refreshes, scores the active corpus,
// and persists a bounded ordered selection once per logical day.
package picks

import "time"

// LogicalDay resolves the current logical day for a fixed-offset timezone
// with an early-morning refresh boundary: before boundaryHour local time the
// day is still "yesterday". The result is always a UTC-midnight-aligned
// timestamp, never a local-time one, so stored values compare with Equal
// without re-deriving the timezone math.
func LogicalDay(nowUTC time.Time, offsetHours, boundaryHour int) time.Time {
	nowUTC = nowUTC.UTC()
	utcMidnight := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)

	localHour := (nowUTC.Hour() + offsetHours) % 24
	crossedMidnight := nowUTC.Hour()+offsetHours >= 24

	if localHour < boundaryHour {
		// Still the previous local day. When the offset addition crossed
		// midnight the UTC date is already one behind the local date, so it
		// stands as-is; otherwise step back a day.
		if crossedMidnight {
			return utcMidnight
		}
		return utcMidnight.AddDate(0, 0, -1)
	}

	// At or past the boundary: the logical day is the local date, which is
	// one ahead of the UTC date if the addition crossed midnight.
	if crossedMidnight {
		return utcMidnight.AddDate(0, 0, 1)
	}
	return utcMidnight
}
