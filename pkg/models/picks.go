package models

import "time"

// PickEntry is one selected listing inside a persisted DailyPickSet. Score,
// reasons and warnings are frozen at generation time so the set can be served
// for the rest of the logical day without re-scoring.
type PickEntry struct {
	OpportunityID string   `json:"opportunity_id"`
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons"`
	Warnings      []string `json:"warnings"`
	IsEarlyAccess bool     `json:"is_early_access"`
}

// DailyPickSet is the bounded, ordered selection persisted per candidate.
// RefreshDate is always a UTC-midnight-aligned logical day so it can be
// compared for equality without re-deriving timezone math.
type DailyPickSet struct {
	CandidateID string      `json:"candidate_id"`
	RefreshDate time.Time   `json:"refresh_date"`
	Picks       []PickEntry `json:"picks"`
}

// DecoratedPick is a pick entry enriched with live per-request state. Lock
// and applied flags are recomputed on every read while the ranking itself
// stays frozen for the day.
type DecoratedPick struct {
	ID            string   `json:"id"`
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons"`
	Warnings      []string `json:"warnings"`
	IsEarlyAccess bool     `json:"is_early_access"`
	IsLocked      bool     `json:"is_locked"`
	HasApplied    bool     `json:"has_applied"`
}
