package matching

import (
	"fmt"
	"math"
	"strings"

	"dailymatch-engine/pkg/models"
	"dailymatch-engine/pkg/utils"
)

// Factor weights for the tag-based variant. They sum to 100 when fully matched.
const (
	educationFull    = 40
	educationPartial = 15
	educationNeutral = 20

	interestFull     = 30
	interestKeyword  = 15
	interestNeutral  = 15
	interestMismatch = 5

	skillMax     = 20
	skillFloor   = 5
	skillNeutral = 10

	locationFull    = 10
	locationMiss    = 3
	locationNeutral = 5
)

// Factor weights for the raw-field variant used for internal listings that
// carry no AI-derived tags.
const (
	rawSkillMax        = 40
	rawSkillFloor      = 10
	rawSkillNeutral    = 20
	rawKeywordMax      = 20
	rawKeywordNeutral  = 10
	rawExperienceFull  = 15
	rawExperienceMiss  = 5
	rawExperienceMixed = 8
	rawLocationFull    = 10
	rawLocationMiss    = 3
	rawLocationNeutral = 5
	rawInterestFull    = 15
	rawInterestMiss    = 4
	rawInterestNeutral = 8
)

// defaultReason is injected when no factor produced a positive reason, so a
// MatchResult is never reason-less.
const defaultReason = "New opportunity available"

// Score evaluates one candidate against one listing and returns a 0-100 match
// with ordered positive reasons and warnings. The weighting variant is
// selected by which attribute set the listing carries: AI-derived tags when
// present, raw fields otherwise. Both variants share the clamp and
// default-reason contract.
func Score(profile NormalizedProfile, opp *models.Opportunity) models.MatchResult {
	var res models.MatchResult
	if opp.Tags != nil {
		res = scoreTagged(profile, opp)
	} else {
		res = scoreRaw(profile, opp)
	}

	if res.Score < 0 {
		res.Score = 0
	}
	if res.Score > 100 {
		res.Score = 100
	}
	if len(res.Reasons) == 0 {
		res.Reasons = append(res.Reasons, defaultReason)
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	return res
}

// scoreTagged is the tag-based weighting: education 40, interest 30,
// skills 20, location 10.
func scoreTagged(p NormalizedProfile, opp *models.Opportunity) models.MatchResult {
	var (
		total    float64
		reasons  []string
		warnings []string
	)
	tags := opp.Tags

	// Education / major alignment
	switch {
	case len(tags.EducationMatch) == 0:
		total += educationNeutral
	case p.Major == "":
		total += educationPartial
		warnings = append(warnings, "Your major may not directly match this role")
	default:
		matched := ""
		for _, tag := range tags.EducationMatch {
			if utils.ContainsFold(p.Major, tag) {
				matched = tag
				break
			}
		}
		if matched != "" {
			total += educationFull
			reasons = append(reasons, fmt.Sprintf("Your %s background fits the %s requirement", p.Major, strings.ToLower(matched)))
		} else {
			total += educationPartial
			warnings = append(warnings, "Your major may not directly match this role")
		}
	}

	// Interest / category alignment
	switch {
	case len(tags.Categories) == 0 && len(tags.MatchKeywords) == 0:
		total += interestNeutral
	case len(p.Interests) == 0:
		total += interestNeutral
	default:
		matched := matchTerm(p.Interests, tags.Categories)
		if matched != "" {
			total += interestFull
			reasons = append(reasons, fmt.Sprintf("Matches your interest in %s", matched))
		} else if kw := matchTerm(p.Interests, tags.MatchKeywords); kw != "" {
			total += interestKeyword
			reasons = append(reasons, fmt.Sprintf("Related to your interest in %s", kw))
		} else {
			total += interestMismatch
			warnings = append(warnings, "This role may not align with your stated interests")
		}
	}

	// Skill overlap, scaled by required-skill coverage
	switch {
	case len(tags.RequiredSkills) == 0:
		total += skillNeutral
	default:
		covered := 0
		for _, req := range tags.RequiredSkills {
			if matchTerm(p.Skills, []string{req}) != "" {
				covered++
			}
		}
		if covered == 0 {
			total += skillFloor
			warnings = append(warnings, fmt.Sprintf("Requires skills you have not listed: %s", strings.Join(tags.RequiredSkills, ", ")))
		} else {
			frac := float64(covered) / float64(len(tags.RequiredSkills))
			pts := math.Min(skillMax, skillMax*frac)
			total += pts
			reasons = append(reasons, fmt.Sprintf("You have %d of %d required skills", covered, len(tags.RequiredSkills)))
		}
	}

	// Location fit
	pts, reason, warning := locationFit(p, opp, locationFull, locationMiss, locationNeutral)
	total += float64(pts)
	if reason != "" {
		reasons = append(reasons, reason)
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	return models.MatchResult{
		Score:    int(math.Round(total)),
		Reasons:  reasons,
		Warnings: warnings,
	}
}

// scoreRaw is the field-based weighting for untagged listings: skills 40,
// domain keywords 20, experience level 15, location 10, interests 15.
func scoreRaw(p NormalizedProfile, opp *models.Opportunity) models.MatchResult {
	var (
		total    float64
		reasons  []string
		warnings []string
	)
	description := strings.ToLower(opp.Description)

	// Skill overlap against the listing's own skill list
	switch {
	case len(opp.Skills) == 0:
		total += rawSkillNeutral
	default:
		covered := 0
		for _, req := range opp.Skills {
			if matchTerm(p.Skills, []string{req}) != "" {
				covered++
			}
		}
		if covered == 0 {
			total += rawSkillFloor
			warnings = append(warnings, fmt.Sprintf("Requires skills you have not listed: %s", strings.Join(opp.Skills, ", ")))
		} else {
			frac := float64(covered) / float64(len(opp.Skills))
			total += math.Min(rawSkillMax, rawSkillMax*frac)
			reasons = append(reasons, fmt.Sprintf("You have %d of %d required skills", covered, len(opp.Skills)))
		}
	}

	// Domain keyword overlap: candidate skills appearing in the description
	switch {
	case description == "":
		total += rawKeywordNeutral
	default:
		hits := 0
		for _, skill := range p.Skills {
			if strings.Contains(description, skill) {
				hits++
			}
		}
		if hits > 0 {
			frac := math.Min(1, float64(hits)/3)
			total += rawKeywordMax * frac
			reasons = append(reasons, fmt.Sprintf("%d of your skills appear in the role description", hits))
		}
	}

	// Experience-level fit
	switch level := strings.ToLower(opp.ExperienceLevel); {
	case level == "":
		total += rawExperienceMixed
	case isEntryLevel(level):
		total += rawExperienceFull
		reasons = append(reasons, "Experience level suits early-career candidates")
	case p.ExperienceMonths >= 24:
		total += rawExperienceFull
		reasons = append(reasons, "Your experience matches the seniority of this role")
	default:
		total += rawExperienceMiss
		warnings = append(warnings, fmt.Sprintf("This role expects %s experience", level))
	}

	// Location or remote
	pts, reason, warning := locationFit(p, opp, rawLocationFull, rawLocationMiss, rawLocationNeutral)
	total += float64(pts)
	if reason != "" {
		reasons = append(reasons, reason)
	}
	if warning != "" {
		warnings = append(warnings, warning)
	}

	// Interest keyword overlap against title + description
	haystack := strings.ToLower(opp.Title) + " " + description
	switch {
	case len(p.Interests) == 0:
		total += rawInterestNeutral
	default:
		matched := ""
		for _, interest := range p.Interests {
			if strings.Contains(haystack, interest) {
				matched = interest
				break
			}
		}
		if matched != "" {
			total += rawInterestFull
			reasons = append(reasons, fmt.Sprintf("Matches your interest in %s", matched))
		} else {
			total += rawInterestMiss
		}
	}

	return models.MatchResult{
		Score:    int(math.Round(total)),
		Reasons:  reasons,
		Warnings: warnings,
	}
}

// locationFit implements the shared location factor: full points for a
// contains-match or a remote/hybrid listing, a small score with a warning for
// a mismatch, neutral when either side is missing location data.
func locationFit(p NormalizedProfile, opp *models.Opportunity, full, miss, neutral int) (int, string, string) {
	oppLoc := strings.ToLower(strings.TrimSpace(opp.Location))
	if strings.Contains(oppLoc, "remote") || strings.Contains(oppLoc, "hybrid") {
		return full, "Remote or hybrid friendly", ""
	}
	if oppLoc == "" || p.Location == "" {
		return neutral, "", ""
	}
	if utils.ContainsFold(oppLoc, p.Location) {
		return full, fmt.Sprintf("Located near you in %s", opp.Location), ""
	}
	return miss, "", fmt.Sprintf("Located in %s, away from your area", opp.Location)
}

// matchTerm returns the first candidate term that substring-matches (either
// direction, case-insensitive) any of the given tags, or "".
func matchTerm(terms []string, tags []string) string {
	for _, term := range terms {
		for _, tag := range tags {
			if utils.ContainsFold(term, tag) {
				return term
			}
		}
	}
	return ""
}

func isEntryLevel(level string) bool {
	for _, kw := range []string{"intern", "entry", "junior", "graduate", "trainee"} {
		if strings.Contains(level, kw) {
			return true
		}
	}
	return false
}
