package streak

// VisibilityTier maps a streak bucket to its multiplier and display name.
type VisibilityTier struct {
	MinStreak  int
	Multiplier int
	Name       string
}

// visibilityTiers is the explicit ordered step table, highest bucket first.
// Tier boundaries are exact: a streak of 3 is Medium, 10 is the Elite
// plateau. Kept as a table rather than interpolation so boundaries stay
// testable.
var visibilityTiers = []VisibilityTier{
	{MinStreak: 10, Multiplier: 10, Name: "Elite"},
	{MinStreak: 7, Multiplier: 8, Name: "Rising"},
	{MinStreak: 5, Multiplier: 6, Name: "High"},
	{MinStreak: 3, Multiplier: 4, Name: "Medium"},
	{MinStreak: 1, Multiplier: 2, Name: "Low"},
	{MinStreak: 0, Multiplier: 1, Name: "Invisible"},
}

// TierFor resolves the visibility tier for an actual streak value.
func TierFor(current int) VisibilityTier {
	for _, tier := range visibilityTiers {
		if current >= tier.MinStreak {
			return tier
		}
	}
	return visibilityTiers[len(visibilityTiers)-1]
}
