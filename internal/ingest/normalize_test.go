package ingest_test

import (
	"testing"

	"dailymatch-engine/internal/ingest"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Software Engineer Intern", "software engineer intern"},
		{"  Software   Engineer (Intern)!  ", "software engineer intern"},
		{"DATA ANALYST – INTERN", "data analyst intern"},
		{"Product Manager, Growth", "product manager growth"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := ingest.NormalizeTitle(tc.in); got != tc.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com/jobs/123", "example.com/jobs/123"},
		{"HTTPS://Example.com/Jobs/123?utm_source=x#apply", "example.com/jobs/123"},
		{"https://example.com/jobs/123/", "example.com/jobs/123"},
		{"http://example.com/jobs/123?ref=feed", "example.com/jobs/123"},
		{"not a url at all", "not a url at all"},
	}

	for _, tc := range cases {
		if got := ingest.NormalizeURL(tc.in); got != tc.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeURL_VariantsCollapse(t *testing.T) {
	a := ingest.NormalizeURL("https://example.com/jobs/123?utm_source=newsletter")
	b := ingest.NormalizeURL("https://EXAMPLE.com/jobs/123/")
	if a != b {
		t.Errorf("expected variants to normalize identically: %q vs %q", a, b)
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"software engineer intern", "software engineer intern", 1, 1},
		{"software engineer intern", "software engineering intern", 0.85, 1},
		{"software engineer intern", "marketing intern", 0, 0.6},
		{"", "", 1, 1},
		{"abc", "", 0, 0},
	}

	for _, tc := range cases {
		got := ingest.Similarity(tc.a, tc.b)
		if got < tc.min || got > tc.max {
			t.Errorf("Similarity(%q, %q) = %.3f, want within [%.2f, %.2f]", tc.a, tc.b, got, tc.min, tc.max)
		}
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	a, b := "frontend developer intern", "front end developer intern"
	if x, y := ingest.Similarity(a, b), ingest.Similarity(b, a); x != y {
		t.Errorf("Similarity is not symmetric: %.3f vs %.3f", x, y)
	}
}
