package models

import "time"

// StreakRecord is the persisted per-candidate consistency state.
// LastActiveDate is stored as a UTC-midnight-aligned calendar date.
type StreakRecord struct {
	CandidateID    string    `json:"candidate_id"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	LastActiveDate time.Time `json:"last_active_date"`
}

// StreakInfo is the read-time projection of a StreakRecord. Visual is the
// decayed streak derived on every read and never persisted.
type StreakInfo struct {
	Current        int       `json:"current"`
	Visual         int       `json:"visual"`
	Longest        int       `json:"longest"`
	Multiplier     int       `json:"multiplier"`
	Tier           string    `json:"tier"`
	LastActiveDate time.Time `json:"last_active_date"`
}
