package models

// ScoreRequest is the payload for an ad-hoc scoring call, e.g. a dashboard
// preview outside the daily-pick flow.
type ScoreRequest struct {
	Candidate   CandidateProfile `json:"candidate" validate:"required"`
	Opportunity Opportunity      `json:"opportunity" validate:"required"`
}

// IngestRequest carries a batch of raw listing rows
type IngestRequest struct {
	Rows []RawRow `json:"rows" validate:"required,min=1"`
}
