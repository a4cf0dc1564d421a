package models

import "dailymatch-engine/pkg/utils"

// CandidateProfile is an immutable snapshot of a candidate's matchable
// attributes. It is built fresh from the persisted user record on every
// scoring call and is never written back.
type CandidateProfile struct {
	ID             string              `json:"id" validate:"required"`
	Major          string              `json:"major"`
	EducationLevel string              `json:"education_level"`
	Location       string              `json:"location"`
	Skills         []string            `json:"skills"`
	Interests      []string            `json:"interests"`
	CVSkills       []string            `json:"cv_skills"`
	CVEducation    []CVEducationEntry  `json:"cv_education"`
	CVExperience   []CVExperienceEntry `json:"cv_experience"`

	// Live listing-interaction state, read alongside the profile so pick
	// decoration does not need a second round trip.
	AppliedIDs  []string `json:"applied_ids"`
	UnlockedIDs []string `json:"unlocked_ids"`
}

// CVEducationEntry is a single education record parsed from the candidate's CV
type CVEducationEntry struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
}

// CVExperienceEntry is a single experience record parsed from the candidate's CV
type CVExperienceEntry struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Months  int    `json:"months"`
}

// HasApplied reports whether the candidate already applied to the opportunity
func (p *CandidateProfile) HasApplied(opportunityID string) bool {
	return utils.Contains(p.AppliedIDs, opportunityID)
}

// HasUnlocked reports whether the candidate unlocked the early-access listing
func (p *CandidateProfile) HasUnlocked(opportunityID string) bool {
	return utils.Contains(p.UnlockedIDs, opportunityID)
}
