// Package ingest consumes externally-sourced listing rows and admits only
// genuinely new listings into the corpus, deduplicating by URL, exact
// title+employer, and fuzzy title similarity.
package ingest

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// NormalizeTitle lowercases, trims, strips non-word characters and collapses
// internal whitespace.
func NormalizeTitle(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	title = nonWord.ReplaceAllString(title, "")
	return whitespace.ReplaceAllString(title, " ")
}

// NormalizeEmployer lowercases and trims an employer name.
func NormalizeEmployer(employer string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(employer)), " ")
}

// NormalizeURL reduces a destination URL to its lowercase hostname and path;
// query string and fragment are dropped. Unparseable input falls back to the
// trimmed lowercase string so it still deduplicates against itself.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}
	path := strings.TrimRight(u.Path, "/")
	return strings.ToLower(u.Host + path)
}
