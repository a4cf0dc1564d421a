package ingest

import (
	"fmt"
	"strings"
	"time"

	"dailymatch-engine/pkg/models"
)

// Column-name synonyms tolerated per field. Sources are not expected to
// normalize their headers; the deduplicator resolves them.
var (
	titleColumns       = []string{"title", "job_title", "position", "role"}
	employerColumns    = []string{"employer", "company", "company_name", "organization"}
	urlColumns         = []string{"url", "job_url", "apply_url", "application_url", "link"}
	locationColumns    = []string{"location", "city", "place"}
	descriptionColumns = []string{"description", "summary", "details"}
	deadlineColumns    = []string{"deadline", "apply_by", "closing_date", "expires"}
)

// deadlineFormats are tried in order when parsing a deadline field.
var deadlineFormats = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
	"January 2, 2006",
	"2 January 2006",
}

// rowField resolves the first non-empty value among the synonym columns,
// coercing scalars to strings.
func rowField(row models.RawRow, columns []string) string {
	for _, col := range columns {
		v, ok := row[col]
		if !ok {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case nil:
			continue
		default:
			s = fmt.Sprintf("%v", val)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// parseDeadline attempts to parse a deadline field. A parse failure is not a
// validation failure: the caller sets the field to nil and the row proceeds.
func parseDeadline(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range deadlineFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
