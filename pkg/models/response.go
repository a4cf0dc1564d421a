package models

import "time"

// DailyPicksResponse is the full daily-picks payload for one candidate
type DailyPicksResponse struct {
	Picks     []DecoratedPick `json:"picks"`
	Streak    StreakInfo      `json:"streak"`
	RequestID string          `json:"request_id"`
}

// ScoreResponse wraps an ad-hoc match result
type ScoreResponse struct {
	Match     MatchResult `json:"match"`
	RequestID string      `json:"request_id"`
}

// IngestResponse wraps an ingestion batch result
type IngestResponse struct {
	Result    IngestResult  `json:"result"`
	Duration  time.Duration `json:"duration"`
	RequestID string        `json:"request_id"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}
