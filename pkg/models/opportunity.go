package models

import "time"

// OpportunityTags holds the AI-derived attributes of a listing. A nil Tags
// pointer on an Opportunity means the listing was never categorized and the
// scorer falls back to matching against the raw fields instead.
type OpportunityTags struct {
	Categories     []string `json:"categories"`
	MatchKeywords  []string `json:"match_keywords"`
	IndustryTags   []string `json:"industry_tags"`
	RequiredSkills []string `json:"required_skills"`
	EducationMatch []string `json:"education_match"`
	Confidence     float64  `json:"confidence"`
}

// DefaultLowConfidence is assigned when categorization fails or times out and
// the listing proceeds with empty tag lists.
const DefaultLowConfidence = 0.1

// EmptyTags returns the fallback tag set used when categorization is
// unavailable. All lists are empty, confidence is low.
func EmptyTags() *OpportunityTags {
	return &OpportunityTags{
		Categories:     []string{},
		MatchKeywords:  []string{},
		IndustryTags:   []string{},
		RequiredSkills: []string{},
		EducationMatch: []string{},
		Confidence:     DefaultLowConfidence,
	}
}

// Opportunity represents a single listing in the corpus
type Opportunity struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Employer    string `json:"employer"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ApplyURL    string `json:"apply_url"`

	// Raw fields used by the field-based scoring variant for internal
	// listings that never went through AI categorization.
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experience_level"`

	Tags *OpportunityTags `json:"tags,omitempty"`

	IsNewOpportunity bool       `json:"is_new_opportunity"`
	PublishedAt      time.Time  `json:"published_at"`
	EarlyAccessUntil *time.Time `json:"early_access_until,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	IsActive         bool       `json:"is_active"`
}

// InEarlyAccess reports whether the listing's early-access window is still
// open at the given instant. A listing whose window has passed is permanently
// regular, regardless of the IsNewOpportunity flag.
func (o *Opportunity) InEarlyAccess(now time.Time) bool {
	return o.IsNewOpportunity && o.EarlyAccessUntil != nil && o.EarlyAccessUntil.After(now)
}
