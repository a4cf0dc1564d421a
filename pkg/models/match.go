package models

// MatchResult is the outcome of scoring one candidate against one listing.
// It is ephemeral: produced fresh on every scoring call and never persisted
// across differing inputs.
type MatchResult struct {
	Score    int      `json:"score"`
	Reasons  []string `json:"reasons"`
	Warnings []string `json:"warnings"`
}
