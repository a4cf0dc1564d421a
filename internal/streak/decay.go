package streak

// DecayFunc maps (currentStreak, missedDays) to the visual streak shown to
// the candidate. Pluggable so product can tune grace windows and decay steps
// without touching call sites.
type DecayFunc func(current, missed int) int

// Defaults for the step curve: a single grace day, full decay by the fifth
// missed day.
const (
	defaultGraceDays = 1
	decayHorizonDays = 5
)

// DefaultDecay degrades the streak gradually instead of snapping to zero the
// moment a day is missed: grace days cost a single step each, further missed
// days shed a proportional slice until the horizon is reached.
func DefaultDecay(current, missed int) int {
	return StepDecay(defaultGraceDays, decayHorizonDays)(current, missed)
}

// StepDecay builds a decay curve with a grace window of graceDays (one step
// lost per missed day inside it) that reaches zero after horizon missed days.
func StepDecay(graceDays, horizon int) DecayFunc {
	if graceDays < 1 {
		graceDays = 1
	}
	if horizon <= graceDays {
		horizon = graceDays + 1
	}
	return func(current, missed int) int {
		switch {
		case current <= 0:
			return 0
		case missed <= 0:
			return current
		case missed <= graceDays:
			remaining := current - missed
			if remaining < 0 {
				remaining = 0
			}
			return remaining
		case missed >= horizon:
			return 0
		default:
			// Proportional slice of the streak per missed day beyond the grace window.
			remaining := current * (horizon - missed) / horizon
			if remaining >= current {
				remaining = current - 1
			}
			if remaining < 0 {
				remaining = 0
			}
			return remaining
		}
	}
}
