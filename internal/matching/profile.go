// Package matching implements the profile normalizer and the candidate ×
// opportunity scoring engine. Everything in this package is pure: no I/O,
// no shared mutable state, safe to call concurrently.
package matching

import (
	"strings"

	"dailymatch-engine/pkg/models"
)

// NormalizedProfile is the flat set of matchable attributes extracted from a
// candidate record. All strings are lowercased and trimmed.
type NormalizedProfile struct {
	Major            string
	Location         string
	Skills           []string
	Interests        []string
	ExperienceMonths int
}

// Normalize builds a NormalizedProfile from a candidate snapshot. Declared
// skills and CV-derived skills are merged into one deduplicated set; CV
// education fields supplement the major when the profile leaves it empty.
func Normalize(p *models.CandidateProfile) NormalizedProfile {
	major := clean(p.Major)
	if major == "" {
		for _, edu := range p.CVEducation {
			if field := clean(edu.Field); field != "" {
				major = field
				break
			}
		}
	}

	months := 0
	for _, exp := range p.CVExperience {
		months += exp.Months
	}

	return NormalizedProfile{
		Major:            major,
		Location:         clean(p.Location),
		Skills:           mergeTerms(p.Skills, p.CVSkills),
		Interests:        mergeTerms(p.Interests, nil),
		ExperienceMonths: months,
	}
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mergeTerms lowercases, trims and deduplicates two term lists, preserving
// first-seen order so scoring output stays deterministic.
func mergeTerms(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		s = clean(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
