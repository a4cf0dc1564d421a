package ingest_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"dailymatch-engine/internal/config"
	"dailymatch-engine/internal/ingest"
	"dailymatch-engine/pkg/models"
)

// memCorpus is an in-memory CorpusStore for exercising the deduplicator.
type memCorpus struct {
	opportunities []models.Opportunity
}

func (m *memCorpus) Create(_ context.Context, opp *models.Opportunity) error {
	m.opportunities = append(m.opportunities, *opp)
	return nil
}

func (m *memCorpus) ActiveOpportunities(_ context.Context) ([]models.Opportunity, error) {
	out := make([]models.Opportunity, 0, len(m.opportunities))
	for _, opp := range m.opportunities {
		if opp.IsActive {
			out = append(out, opp)
		}
	}
	return out, nil
}

func (m *memCorpus) ByIDs(_ context.Context, ids []string) ([]models.Opportunity, error) {
	var out []models.Opportunity
	for _, opp := range m.opportunities {
		for _, id := range ids {
			if opp.ID == id {
				out = append(out, opp)
			}
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Picks.EarlyAccessWindow = 48 * time.Hour
	cfg.Ingest.FuzzySimilarityThreshold = 0.85
	cfg.Ingest.FuzzyMaxLengthDelta = 0.30
	return cfg
}

func fixedClock() time.Time {
	return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
}

func newDedup(corpus *memCorpus) *ingest.Deduplicator {
	return ingest.NewDeduplicator(corpus, nil, testConfig(), zap.NewNop(), fixedClock)
}

func row(title, employer, url string) models.RawRow {
	return models.RawRow{"title": title, "employer": employer, "url": url}
}

// ── URL dedup ──────────────────────────────────────────────────────────────

func TestIngestBatch_DuplicateURLWithinBatch(t *testing.T) {
	corpus := &memCorpus{}
	d := newDedup(corpus)

	result, err := d.IngestBatch(context.Background(), []models.RawRow{
		row("Software Engineer Intern", "Acme", "https://acme.com/jobs/1"),
		row("Completely Different Title", "Globex", "https://acme.com/jobs/1?utm_source=feed"),
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}

	if result.Created != 1 || result.Skipped != 1 {
		t.Fatalf("created=%d skipped=%d, want 1/1", result.Created, result.Skipped)
	}
	if got := result.SkippedDetails[0].Reason; got != "URL already exists" {
		t.Errorf("skip reason = %q, want %q", got, "URL already exists")
	}
	if len(corpus.opportunities) != 1 {
		t.Errorf("corpus holds %d listings, want 1", len(corpus.opportunities))
	}
}

func TestIngestBatch_DuplicateURLAgainstExistingCorpus(t *testing.T) {
	corpus := &memCorpus{opportunities: []models.Opportunity{{
		ID:       "existing",
		Title:    "Old Title",
		Employer: "Acme",
		ApplyURL: "https://acme.com/jobs/1/",
		IsActive: true,
	}}}
	d := newDedup(corpus)

	result, err := d.IngestBatch(context.Background(), []models.RawRow{
		row("New Title", "Acme", "https://acme.com/jobs/1"),
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.Skipped != 1 || result.Created != 0 {
		t.Errorf("created=%d skipped=%d, want 0/1", result.Created, result.Skipped)
	}
}

// ── title dedup ────────────────────────────────────────────────────────────

func TestIngestBatch_ExactTitleSameEmployer(t *testing.T) {
	corpus := &memCorpus{}
	d := newDedup(corpus)

	result, err := d.IngestBatch(context.Background(), []models.RawRow{
		row("Data Analyst Intern", "Acme", "https://acme.com/jobs/1"),
		row("Data  Analyst  Intern!", "acme", "https://acme.com/jobs/2"),
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.Created != 1 || result.Skipped != 1 {
		t.Fatalf("created=%d skipped=%d, want 1/1", result.Created, result.Skipped)
	}
	if got := result.SkippedDetails[0].Reason; got != "title already exists for this employer" {
		t.Errorf("skip reason = %q", got)
	}
}

func TestIngestBatch_FuzzyTitleSameEmployerOnly(t *testing.T) {
	corpus := &memCorpus{}
	d := newDedup(corpus)

	result, err := d.IngestBatch(context.Background(), []models.RawRow{
		row("Software Engineer Intern", "Acme", "https://acme.com/jobs/1"),
		// ~0.89 similarity to the first row, same employer: skipped.
		row("Software Engineering Intern", "Acme", "https://acme.com/jobs/2"),
		// Same fuzzy title at a different employer: created.
		row("Software Engineering Intern", "Globex", "https://globex.com/jobs/9"),
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}

	if result.Created != 2 || result.Skipped != 1 {
		t.Fatalf("created=%d skipped=%d, want 2/1", result.Created, result.Skipped)
	}
	reason := result.SkippedDetails[0].Reason
	if !strings.HasPrefix(reason, "similar title already exists for this employer") {
		t.Errorf("skip reason = %q", reason)
	}
}

func TestIngestBatch_DistinctTitlesSameEmployerBothCreated(t *testing.T) {
	corpus := &memCorpus{}
	d := newDedup(corpus)

	result, err := d.IngestBatch(context.Background(), []models.RawRow{
		row("Software Engineer Intern", "Acme", "https://acme.com/jobs/1"),
		row("Marketing Intern", "Acme", "https://acme.com/jobs/2"),
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.Created != 2 || result.Skipped != 0 {
		t.Errorf("created=%d skipped=%d, want 2/0", result.Created, result.Skipped)
	}
}

// ── validation and resilience ──────────────────────────────────────────────

func TestIngestBatch_InvalidRowDoesNotStopTheBatch(t *testing.T) {
	corpus := &memCorpus{}
	d := newDedup(corpus)

	result, err := d.IngestBatch(context.Background(), []models.RawRow{
		row("", "Acme", "https://acme.com/jobs/1"),
		row("Valid Role", "Acme", "https://acme.com/jobs/2"),
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}

	if result.Failed != 1 || result.Created != 1 {
		t.Fatalf("failed=%d created=%d, want 1/1", result.Failed, result.Created)
	}
	if got := result.FailureReasons[0].Reason; got != "missing required fields: title" {
		t.Errorf("failure reason = %q", got)
	}
}

func TestIngestBatch_UnparseableDeadlineStillCreates(t *testing.T) {
	corpus := &memCorpus{}
	d := newDedup(corpus)

	rows := []models.RawRow{{
		"title":    "Ops Intern",
		"employer": "Acme",
		"url":      "https://acme.com/jobs/1",
		"deadline": "whenever we feel like it",
	}}
	result, err := d.IngestBatch(context.Background(), rows)
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("created=%d, want 1", result.Created)
	}
	if corpus.opportunities[0].Deadline != nil {
		t.Errorf("Deadline = %v, want nil for unparseable input", corpus.opportunities[0].Deadline)
	}
}

func TestIngestBatch_SynonymColumns(t *testing.T) {
	corpus := &memCorpus{}
	d := newDedup(corpus)

	rows := []models.RawRow{{
		"job_title": "Research Intern",
		"company":   "Initech",
		"link":      "https://initech.com/careers/7",
		"city":      "Dubai",
		"apply_by":  "2024-08-01",
	}}
	result, err := d.IngestBatch(context.Background(), rows)
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("created=%d, want 1", result.Created)
	}

	opp := corpus.opportunities[0]
	if opp.Title != "Research Intern" || opp.Employer != "Initech" || opp.Location != "Dubai" {
		t.Errorf("unexpected mapped fields: %+v", opp)
	}
	if opp.Deadline == nil || opp.Deadline.Format("2006-01-02") != "2024-08-01" {
		t.Errorf("Deadline = %v, want 2024-08-01", opp.Deadline)
	}
}

func TestIngestBatch_NewListingMarkedForEarlyAccess(t *testing.T) {
	corpus := &memCorpus{}
	d := newDedup(corpus)

	result, err := d.IngestBatch(context.Background(), []models.RawRow{
		row("Software Engineer Intern", "Acme", "https://acme.com/jobs/1"),
	})
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("created=%d, want 1", result.Created)
	}

	opp := corpus.opportunities[0]
	if !opp.IsNewOpportunity || !opp.IsActive {
		t.Errorf("expected an active new opportunity, got %+v", opp)
	}
	if opp.EarlyAccessUntil == nil {
		t.Fatal("EarlyAccessUntil not set")
	}
	want := fixedClock().Add(48 * time.Hour)
	if !opp.EarlyAccessUntil.Equal(want) {
		t.Errorf("EarlyAccessUntil = %v, want %v", opp.EarlyAccessUntil, want)
	}
	if opp.Tags == nil {
		t.Error("expected the empty-tags fallback when no categorizer is wired")
	}
}
